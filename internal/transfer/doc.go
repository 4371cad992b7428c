// Package transfer moves repository ownership between accounts. Plans run
// through a forward-only state machine: validating, cloning, remote
// updating, pushing and source cleanup. The native strategy delegates the
// move to the platform transfer endpoint; the mirror strategy clones every
// ref locally, pushes it to a freshly created destination repository and
// verifies the destination ref count before any source deletion.
package transfer
