package naming

import (
	"github.com/marmos91/nsfs/internal/errs"
	"github.com/marmos91/nsfs/pkg/fsnode"
	"github.com/marmos91/nsfs/pkg/nspath"
)

// defaultReplicationThreshold is the number of consecutive shared locks a
// file tolerates before the naming server attempts to add another replica,
// absent an override (NamingConfig.ReplicationThreshold).
const defaultReplicationThreshold = 20

// applyFileLockPolicy runs the read-triggered replication or
// write-triggered invalidation rule for a file node whose own lock the
// caller already holds in the given mode.
func (t *Tree) applyFileLockPolicy(path nspath.Path, node *fsnode.Node, exclusive bool) error {
	if exclusive {
		return t.invalidateReplicas(path, node)
	}
	return t.maybeReplicate(path, node)
}

// maybeReplicate increments the read counter and, once it reaches the
// tree's replication threshold, attempts to add one more replica by
// commanding the next unused registered server to copy the file from the
// primary. If no unused server is registered, the attempt is silently
// skipped — the counter is left above threshold so the next shared lock
// retries.
func (t *Tree) maybeReplicate(path nspath.Path, node *fsnode.Node) error {
	count := node.IncrementReadCount()
	if count < t.replicationThreshold {
		return nil
	}

	replicas := node.Replicas()
	newIndex, ok := nextUnusedIndex(replicas, t.registry.Count())
	if !ok {
		return nil
	}
	primary := t.registry.Client(node.Primary())

	ok, err := t.registry.Command(newIndex).Copy(path, primary)
	if err != nil {
		return errs.Newf(errs.Remote, path.String(), err.Error())
	}
	if !ok {
		return errs.Newf(errs.State, path.String(), "replica copy reported failure")
	}

	node.AddReplica(newIndex)
	node.ResetReadCount()
	t.log.Debug("replicated %s to server %d", path.String(), newIndex)
	return nil
}

// nextUnusedIndex returns the lowest registry index in [0, count) not
// already present in used, and false if every registered server already
// holds a replica.
func nextUnusedIndex(used []int, count int) (int, bool) {
	taken := make(map[int]struct{}, len(used))
	for _, idx := range used {
		taken[idx] = struct{}{}
	}
	for i := 0; i < count; i++ {
		if _, ok := taken[i]; !ok {
			return i, true
		}
	}
	return 0, false
}

// invalidateReplicas drops every replica but the primary, commanding each
// dropped server to delete its copy, and resets the read counter. A delete
// that reports false indicates the registry and the storage host have
// diverged and is surfaced as a state error.
func (t *Tree) invalidateReplicas(path nspath.Path, node *fsnode.Node) error {
	dropped := node.RetainPrimaryOnly()
	node.ResetReadCount()

	for _, index := range dropped {
		ok, err := t.registry.Command(index).Delete(path)
		if err != nil {
			return errs.Newf(errs.Remote, path.String(), err.Error())
		}
		if !ok {
			return errs.Newf(errs.State, path.String(), "replica delete reported failure")
		}
	}
	if len(dropped) > 0 {
		t.log.Debug("invalidated %d replicas of %s", len(dropped), path.String())
	}
	return nil
}
