// Package container resolves the host processes running inside a Docker container.
package container

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/docker/docker/client"
)

// PIDs returns the host pids of the processes running in containerID.
// The Docker endpoint comes from the DOCKER_HOST family of env vars.
func PIDs(ctx context.Context, containerID string) ([]int32, error) {
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return nil, fmt.Errorf("docker client: %w", err)
	}
	defer cli.Close()

	top, err := cli.ContainerTop(ctx, containerID, nil)
	if err != nil {
		return nil, fmt.Errorf("docker top %s: %w", containerID, err)
	}
	return pidsFromTop(top.Titles, top.Processes)
}

// pidsFromTop extracts the PID column of a `docker top` table.
func pidsFromTop(titles []string, rows [][]string) ([]int32, error) {
	col := -1
	for i, title := range titles {
		if strings.EqualFold(strings.TrimSpace(title), "PID") {
			col = i
			break
		}
	}
	if col < 0 {
		return nil, fmt.Errorf("docker top output has no PID column (titles: %s)", strings.Join(titles, ", "))
	}

	pids := make([]int32, 0, len(rows))
	for _, row := range rows {
		if col >= len(row) {
			return nil, fmt.Errorf("docker top row %q is missing the PID column", row)
		}
		pid, err := strconv.ParseInt(strings.TrimSpace(row[col]), 10, 32)
		if err != nil {
			return nil, fmt.Errorf("docker top: invalid pid %q: %w", row[col], err)
		}
		pids = append(pids, int32(pid))
	}
	return pids, nil
}
