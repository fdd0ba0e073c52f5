package usecase_test

import (
	"sync"
	"time"

	"github.com/iho/paytransfer/internal/domain"
)

// recordingObserver captures notifications for assertions.
type recordingObserver struct {
	mu                sync.Mutex
	succeeded         []*domain.Transfer
	failed            []domain.ErrorKind
	created           []*domain.Account
	createFailed      []domain.ErrorKind
	lookupFailed      []domain.ErrorKind
	accountQueries    int
	transferQueries   int
	transferDurations int
	createDurations   int
}

func (o *recordingObserver) TransferSucceeded(t *domain.Transfer) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.succeeded = append(o.succeeded, t)
}

func (o *recordingObserver) TransferFailed(kind domain.ErrorKind) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.failed = append(o.failed, kind)
}

func (o *recordingObserver) TransferDuration(time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.transferDurations++
}

func (o *recordingObserver) AccountCreated(a *domain.Account) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.created = append(o.created, a)
}

func (o *recordingObserver) AccountCreateFailed(kind domain.ErrorKind) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.createFailed = append(o.createFailed, kind)
}

func (o *recordingObserver) AccountCreateDuration(time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.createDurations++
}

func (o *recordingObserver) AccountQueried() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.accountQueries++
}

func (o *recordingObserver) TransferQueried() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.transferQueries++
}

func (o *recordingObserver) LookupFailed(kind domain.ErrorKind) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.lookupFailed = append(o.lookupFailed, kind)
}
