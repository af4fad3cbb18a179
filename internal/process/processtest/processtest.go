// SPDX-License-Identifier: MPL-2.0

// Package processtest provides a recording process.Spawner for tests.
package processtest

import (
	"context"
	"sync"

	"github.com/invowk/scriptrun/internal/process"
)

type (
	// Recorder is a process.Spawner that records every Command and never
	// starts a real process. Its zero value spawns children that exit 0.
	Recorder struct {
		// SpawnErr, when set, is returned by Spawn.
		SpawnErr error
		// Status and WaitErr are returned by the spawned process's Wait.
		Status  process.ExitStatus
		WaitErr error
		// Release, when non-nil, blocks Wait until it is closed.
		Release chan struct{}

		mu       sync.Mutex
		commands []process.Command
	}

	fakeProcess struct {
		pid     int
		status  process.ExitStatus
		err     error
		release chan struct{}
	}
)

// Spawn records c and returns a fake process.
func (r *Recorder) Spawn(ctx context.Context, c process.Command) (process.Process, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.commands = append(r.commands, c)
	if r.SpawnErr != nil {
		return nil, r.SpawnErr
	}
	return &fakeProcess{
		pid:     1000 + len(r.commands),
		status:  r.Status,
		err:     r.WaitErr,
		release: r.Release,
	}, nil
}

// Commands returns the recorded commands in spawn order.
func (r *Recorder) Commands() []process.Command {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]process.Command(nil), r.commands...)
}

// Last returns the most recent command and whether there was one.
func (r *Recorder) Last() (process.Command, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.commands) == 0 {
		return process.Command{}, false
	}
	return r.commands[len(r.commands)-1], true
}

func (p *fakeProcess) Pid() int { return p.pid }

func (p *fakeProcess) Wait() (process.ExitStatus, error) {
	if p.release != nil {
		<-p.release
	}
	return p.status, p.err
}
