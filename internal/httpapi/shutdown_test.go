package httpapi

import (
	"bufio"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShutdown_ClosesOpenEventStreams(t *testing.T) {
	d := newDeps(t)
	srv := httptest.NewUnstartedServer(Handler(d, NewMux(d)))
	srv.Config.RegisterOnShutdown(d.Hub.Close)
	srv.Start()
	defer srv.Close()

	tr := &http.Transport{}
	defer tr.CloseIdleConnections()
	client := &http.Client{Transport: tr}

	resp, err := client.Get(srv.URL + "/events")
	require.NoError(t, err)
	defer resp.Body.Close()

	// first frame is the ping
	line, err := bufio.NewReader(resp.Body).ReadString('\n')
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(line, "retry:"), line)
	require.Eventually(t, func() bool { return d.Hub.Len() == 1 }, time.Second, 5*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	start := time.Now()
	require.NoError(t, srv.Config.Shutdown(ctx))
	assert.Less(t, time.Since(start), time.Second)

	_, _ = io.Copy(io.Discard, resp.Body)
	assert.Equal(t, 0, d.Hub.Len())
}
