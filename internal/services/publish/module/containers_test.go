//go:build integration_pg || integration_ch

package module

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	kit "qabundle/internal/platform/testkit"

	tc "github.com/testcontainers/testcontainers-go"
)

// startContainer runs req and returns host and the mapped port
func startContainer(t *testing.T, req tc.ContainerRequest, port string) (string, string) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	t.Cleanup(cancel)

	c, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{ContainerRequest: req, Started: true})
	if err != nil {
		t.Fatalf("start %s: %v", req.Image, err)
	}
	t.Cleanup(func() { _ = c.Terminate(context.Background()) })

	host, err := c.Host(ctx)
	if err != nil {
		t.Fatalf("container host: %v", err)
	}
	mapped, err := c.MappedPort(ctx, port)
	if err != nil {
		t.Fatalf("mapped port: %v", err)
	}
	return host, mapped.Port()
}

// mergedInput writes a three record dataset and returns its path
func mergedInput(t *testing.T) string {
	t.Helper()
	dir := kit.WriteFiles(t, map[string]string{
		"combined.json": `{"version":"1.0","data":[
			{"id":"1","context":"C1","question":"Q1?","answers":["A1"]},
			{"id":"2","context":"C2","question":"Q2?","answers":["A2","A2b"]},
			{"id":"3","context":"C3","question":"Q3?","answers":["A3"]}
		]}`,
	})
	return filepath.Join(dir, "combined.json")
}
