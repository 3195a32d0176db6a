package dm

import (
	"sync"
	"time"
)

// TransferStatus is a file transfer's position in its offer/accept
// lifecycle (spec §4.7): Offered -> Accepted -> Transferring ->
// Completed, with Rejected as the other terminal state from Offered.
type TransferStatus int

const (
	TransferOffered TransferStatus = iota
	TransferAccepted
	TransferTransferring
	TransferCompleted
	TransferRejected
)

// pendingTimeout bounds how long an unanswered offer is kept before
// eviction; terminalRetention bounds how long a finished transfer's
// record is kept for status queries afterward.
const (
	pendingTimeout    = 5 * time.Minute
	terminalRetention = 1 * time.Hour
)

// Transfer is one file-transfer record. FileHash is the sender-claimed
// SHA-256 digest of the plaintext file, used by the recipient's client
// to verify integrity after decryption; the core never sees file bytes.
type Transfer struct {
	ID          uint64
	SenderID    uint64
	RecipientID uint64
	FileName    string
	FileSize    uint64
	FileHash    []byte
	Status      TransferStatus
	CreatedAt   time.Time
	ResolvedAt  *time.Time
}

func (t Transfer) expired(now time.Time) bool {
	switch t.Status {
	case TransferOffered:
		return now.Sub(t.CreatedAt) > pendingTimeout
	case TransferCompleted, TransferRejected:
		return t.ResolvedAt != nil && now.Sub(*t.ResolvedAt) > terminalRetention
	default:
		return false
	}
}

// TransferManager owns every file-transfer offer's lifecycle.
type TransferManager struct {
	mu        sync.Mutex
	transfers map[uint64]*Transfer
	nextID    uint64
}

// NewTransferManager creates an empty file-transfer manager.
func NewTransferManager() *TransferManager {
	return &TransferManager{transfers: make(map[uint64]*Transfer), nextID: 1}
}

// Offer records a new file-transfer offer in the Offered state.
func (m *TransferManager) Offer(senderID, recipientID uint64, fileName string, fileSize uint64, fileHash []byte) Transfer {
	m.mu.Lock()
	defer m.mu.Unlock()

	t := &Transfer{
		ID:          m.nextID,
		SenderID:    senderID,
		RecipientID: recipientID,
		FileName:    fileName,
		FileSize:    fileSize,
		FileHash:    fileHash,
		Status:      TransferOffered,
		CreatedAt:   time.Now().UTC(),
	}
	m.nextID++
	m.transfers[t.ID] = t
	return *t
}

// Accept transitions an Offered transfer to Accepted. Reports whether
// the transition applied.
func (m *TransferManager) Accept(transferID uint64) bool {
	return m.transition(transferID, TransferOffered, TransferAccepted, false)
}

// Reject transitions an Offered transfer to Rejected, a terminal state.
func (m *TransferManager) Reject(transferID uint64) bool {
	return m.transition(transferID, TransferOffered, TransferRejected, true)
}

// BeginTransferring transitions an Accepted transfer to Transferring.
func (m *TransferManager) BeginTransferring(transferID uint64) bool {
	return m.transition(transferID, TransferAccepted, TransferTransferring, false)
}

// Complete transitions a Transferring transfer to Completed, a
// terminal state.
func (m *TransferManager) Complete(transferID uint64) bool {
	return m.transition(transferID, TransferTransferring, TransferCompleted, true)
}

func (m *TransferManager) transition(transferID uint64, from, to TransferStatus, terminal bool) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.transfers[transferID]
	if !ok || t.Status != from {
		return false
	}
	t.Status = to
	if terminal {
		now := time.Now().UTC()
		t.ResolvedAt = &now
	}
	return true
}

// Get returns a transfer's current record.
func (m *TransferManager) Get(transferID uint64) (Transfer, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.transfers[transferID]
	if !ok {
		return Transfer{}, false
	}
	return *t, true
}

// PendingForUser returns every Offered transfer awaiting a decision
// from recipientID.
func (m *TransferManager) PendingForUser(recipientID uint64) []Transfer {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Transfer
	for _, t := range m.transfers {
		if t.RecipientID == recipientID && t.Status == TransferOffered {
			out = append(out, *t)
		}
	}
	return out
}

// CleanupExpired evicts offers that timed out unanswered and
// terminal-state records past their retention window.
func (m *TransferManager) CleanupExpired() {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now().UTC()
	for id, t := range m.transfers {
		if t.expired(now) {
			delete(m.transfers, id)
		}
	}
}
