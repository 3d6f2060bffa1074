package api

// Handle identifies one logical connection inside a Context's handle
// table. Handles start at 1 and increase monotonically; they are never
// reused within the lifetime of a Context. Zero is reserved for "no
// handle" (used by InvalidHandle and the last-accepted-client slot).
type Handle uint32

// InvalidHandle is returned wherever a Handle is expected but none is
// available, e.g. entry.Entry.LastClientHandle before any NewClient
// poll has occurred.
const InvalidHandle Handle = 0
