package api

// OutboundCapacity is the fixed capacity of every host-to-task queue.
// The façade writes to it with a non-blocking try-send (dropped
// silently when full). Close also tries a non-blocking send of
// Disconnect and then closes the channel; when the queue is full that
// Disconnect is dropped, and the task sees the closed channel only after
// it has drained the messages already queued.
const OutboundCapacity = 100

// Outbound is the host->task channel. Every socket gets exactly one,
// created together with its task.
type Outbound chan Message

// MessageKind discriminates the closed set of Message variants. Message
// is a tagged union implemented as a struct-with-kind rather than an
// interface, per the small-closed-sum design called for by this kind of
// protocol bridge: exhaustive switches over Kind are checked once, not
// scattered across type assertions.
type MessageKind int

const (
	KindConnect MessageKind = iota
	KindDisconnect
	KindText
	KindBinary
	KindError
	KindNewClient
	KindFileAdd
	KindFileRemove
)

// Message is the single value type exchanged on every socket's
// directional channel pair, in both directions: host->task carries only
// Text/Binary/Disconnect/FileAdd/FileRemove (other kinds sent to a task
// are simply meaningless and ignored by that task's select loop);
// task->host carries only Connect/Disconnect/Binary/Error/NewClient.
type Message struct {
	Kind MessageKind

	// Text holds the payload for KindText (host->task sends) and is
	// never populated on a task->host message — inbound text and
	// binary frames are unified into Binary, per spec.
	Text string

	// Binary holds the payload for KindBinary and, for NewClient, is
	// unused (see Client.PeerID instead).
	Binary []byte

	// Err holds the reason string for KindError.
	Err string

	// Client holds the accepted peer for KindNewClient.
	Client ClientChannel

	// FileName/FileData hold the virtual-file overlay control payload
	// for KindFileAdd (both fields) and KindFileRemove (FileName only).
	FileName string
	FileData []byte
}

// Connect builds a KindConnect message.
func Connect() Message { return Message{Kind: KindConnect} }

// Disconnect builds a KindDisconnect message.
func Disconnect() Message { return Message{Kind: KindDisconnect} }

// TextMsg builds a KindText message carrying s.
func TextMsg(s string) Message { return Message{Kind: KindText, Text: s} }

// BinaryMsg builds a KindBinary message carrying b.
func BinaryMsg(b []byte) Message { return Message{Kind: KindBinary, Binary: b} }

// ErrorMsg builds a KindError message carrying reason.
func ErrorMsg(reason string) Message { return Message{Kind: KindError, Err: reason} }

// NewClientMsg builds a KindNewClient message carrying the accepted
// peer's channel pair and identity.
func NewClientMsg(c ClientChannel) Message { return Message{Kind: KindNewClient, Client: c} }

// FileAddMsg builds a KindFileAdd message.
func FileAddMsg(name string, data []byte) Message {
	return Message{Kind: KindFileAdd, FileName: name, FileData: data}
}

// FileRemoveMsg builds a KindFileRemove message.
func FileRemoveMsg(name string) Message {
	return Message{Kind: KindFileRemove, FileName: name}
}

// Inbound is the minimal contract a mailbox must satisfy for a
// SocketEntry to poll it; it is implemented by *mailbox.Mailbox but
// declared here so api stays free of a direct internal/mailbox import
// cycle in the other direction (task bodies construct ClientChannel
// values with a concrete *mailbox.Mailbox, which satisfies this).
//
// Closed reports whether the sending task has closed the mailbox. Checked
// after a TryRecv miss, it lets a non-blocking poll distinguish "nothing
// yet" (NoData) from "nothing ever again" (Closed).
type Inbound interface {
	TryRecv() (Message, bool)
	Recv() (Message, bool)
	Closed() bool
}

// ClientChannel is the triple handed from an accept-loop task to the
// façade when a new peer connects: the accepted task's outbound sender
// (so the host can address sends to the child), the accepted task's
// inbound receiver (so the host can poll the child for data), and a
// human-readable peer identity (remote address for TCP/WS).
type ClientChannel struct {
	Outbound Outbound
	Inbound  Inbound
	PeerID   string
}
