package engine

import (
	"errors"
	"fmt"
	"time"

	"github.com/danieljhkim/stagesync/internal/snapshot"
	"github.com/danieljhkim/stagesync/internal/transport"
)

// classification is the remote-side view of one file for this run.
type classification struct {
	status          Status
	remoteHash      string
	remoteSize      int64
	remoteTime      string
	matchedBaseline string

	// remoteContent holds the fetched remote bytes so that a later backup
	// does not need a second fetch.
	remoteContent []byte
}

// classifyRemote fetches and classifies the remote copy of one file.
//
// The status chain is a strict priority order: a missing file is MISSING,
// then goal equality wins over baseline membership, so a remote state equal
// to both the goal and a stale baseline is reported as synced. Transport
// errors other than a missing file are fatal for the whole phase.
func (e *Engine) classifyRemote(conn transport.Transport, g *goal, tracked *snapshot.TrackedFile, st *sourceState, remotePath string, sizeOnly bool) (*classification, error) {
	c := &classification{}

	if sizeOnly {
		return e.classifyBySize(conn, g, remotePath)
	}

	data, err := conn.Get(remotePath)
	if err != nil {
		if errors.Is(err, transport.ErrMissing) {
			c.status = StatusMissing
			return c, nil
		}
		return nil, fmt.Errorf("%w: %v", ErrRemoteUnavailable, err)
	}

	c.remoteContent = data
	c.remoteSize = int64(len(data))
	c.remoteHash = e.hasher.SumBytes(data)
	if mtime := conn.ModTime(remotePath); !mtime.IsZero() {
		c.remoteTime = mtime.Format(time.RFC3339)
	}

	switch {
	case c.remoteHash == g.hash:
		c.status = StatusMatchGoal
	default:
		if matched, ok := matchBaseline(c.remoteHash, tracked, st); ok {
			c.status = StatusMatchBaseline
			c.matchedBaseline = matched
		} else {
			c.status = StatusDiffHash
		}
	}
	return c, nil
}

// classifyBySize compares raw byte sizes only. Equal sizes are reported as
// MATCH_GOAL on a best-effort basis; this mode is documented as unsound
// across line-ending conventions and never drives deployment.
func (e *Engine) classifyBySize(conn transport.Transport, g *goal, remotePath string) (*classification, error) {
	c := &classification{}

	size, err := conn.Size(remotePath)
	if err != nil {
		if errors.Is(err, transport.ErrMissing) {
			c.status = StatusMissing
			return c, nil
		}
		return nil, fmt.Errorf("%w: %v", ErrRemoteUnavailable, err)
	}

	c.remoteSize = size
	if size == g.size {
		c.status = StatusMatchGoal
	} else {
		c.status = StatusDiffSize
	}
	return c, nil
}

// matchBaseline reports whether remoteHash is a member of the baseline set:
// the reference hash, the extra baseline reference, and all recorded history.
func matchBaseline(remoteHash string, tracked *snapshot.TrackedFile, st *sourceState) (string, bool) {
	if st.refPresent && remoteHash == st.refHash {
		return st.refHash, true
	}
	if st.baselineHash != "" && remoteHash == st.baselineHash {
		return st.baselineHash, true
	}
	if tracked != nil && tracked.InHistory(remoteHash) {
		return remoteHash, true
	}
	return "", false
}
