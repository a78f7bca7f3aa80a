package notify

import (
	"context"
	"fmt"
	"io"
	"log"
	"testing"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func setupFakeSmtp(t *testing.T) (SmtpConfig, string) {
	testcontainers.SkipIfProviderIsNotHealthy(t)

	// suppress logging
	testcontainers.Logger = log.New(io.Discard, "", 0)

	ctx := context.Background()
	container, err := testcontainers.GenericContainer(
		ctx,
		testcontainers.GenericContainerRequest{
			Started: true,
			ContainerRequest: testcontainers.ContainerRequest{
				Image:        "haravich/fake-smtp-server",
				ExposedPorts: []string{"1025/tcp", "1080/tcp"},
				WaitingFor:   wait.ForLog("smtp://0.0.0.0:1025"),
			},
		},
	)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		err := container.Terminate(context.Background())
		if err != nil {
			t.Log("terminate smtp container", err)
		}
	})

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatal(err)
	}
	smtpPort, err := container.MappedPort(ctx, "1025/tcp")
	if err != nil {
		t.Fatal(err)
	}
	webPort, err := container.MappedPort(ctx, "1080/tcp")
	if err != nil {
		t.Fatal(err)
	}

	config := SmtpConfig{
		Server:       host,
		Port:         smtpPort.Int(),
		EmailAddress: "seatwatch@example.com",
		Password:     "default",
	}
	return config, fmt.Sprintf("http://%s:%s", host, webPort.Port())
}

func TestEmailDispatcher(t *testing.T) {
	config, webUrl := setupFakeSmtp(t)
	dispatcher := NewEmailDispatcher(config)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	n := testNotification("mailto:alice@example.com")
	err := dispatcher.Dispatch(ctx, n)
	require.NoError(t, err)

	res, err := resty.New().R().
		SetContext(ctx).
		Get(webUrl + "/messages/1.plain")
	require.NoError(t, err)
	require.Contains(t, res.String(), n.Summary())
}

func TestEmailDispatcherRejectsChatChannel(t *testing.T) {
	dispatcher := NewEmailDispatcher(SmtpConfig{Server: "localhost", Port: 1025})
	err := dispatcher.Dispatch(context.Background(), testNotification("channel-1"))
	require.ErrorContains(t, err, "not an e-mail address")
}
