package htmlutil

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
)

func parse(t testing.TB, markup string) *goquery.Document {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		t.Fatal(err)
	}
	return doc
}

func TestStrippedText(t *testing.T) {
	doc := parse(t, `<p>
		Intro to   Systems
		<span> - </span>
		<b>Lecture </b>
	</p>`)
	require.Equal(t, "Intro to   Systems-Lecture", SelectionText(doc.Find("p")))
	require.Equal(t, "", SelectionText(doc.Find("table")))
}

func TestNormalizeSpace(t *testing.T) {
	require.Equal(t, "Mo We 9:15AM", NormalizeSpace("  Mo  We\n\t9:15AM "))
}

func TestNextElement(t *testing.T) {
	doc := parse(t, `<table>
		<tr><td id="label">Class Number</td><td id="value">12345</td></tr>
	</table>
	<b id="heading">Class Availability</b>
	<div><table id="avail"><tr><td><span>30</span></td></tr></table></div>`)

	label := doc.Find("#label").Nodes[0]
	next := NextElement(label)
	require.NotNil(t, next)
	require.Equal(t, "value", goquery.NewDocumentFromNode(next).Selection.AttrOr("id", ""))

	heading := doc.Find("#heading").Nodes[0]
	table := NextElementMatching(heading, "table")
	require.NotNil(t, table)
	require.Equal(t, "avail", goquery.NewDocumentFromNode(table).Selection.AttrOr("id", ""))

	require.Nil(t, NextElementMatching(table, "table"))
}

func TestOwnString(t *testing.T) {
	doc := parse(t, `<table><tr>
		<td id="plain">Class Number</td>
		<td id="nested"><b>Class Number</b></td>
		<td id="mixed"><b>Class</b> Number</td>
		<td id="empty"></td>
	</tr></table>`)

	text, ok := OwnString(doc.Find("#plain").Nodes[0])
	require.True(t, ok)
	require.Equal(t, "Class Number", text)

	text, ok = OwnString(doc.Find("#nested").Nodes[0])
	require.True(t, ok)
	require.Equal(t, "Class Number", text)

	_, ok = OwnString(doc.Find("#mixed").Nodes[0])
	require.False(t, ok)
	_, ok = OwnString(doc.Find("#empty").Nodes[0])
	require.False(t, ok)
}
