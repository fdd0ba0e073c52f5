package usecase

import (
	"time"

	"github.com/iho/paytransfer/internal/domain"
)

// Observer is notified of every outcome. Implementations must not block and
// the use cases never depend on what they do.
type Observer interface {
	TransferSucceeded(transfer *domain.Transfer)
	TransferFailed(kind domain.ErrorKind)
	TransferDuration(d time.Duration)
	AccountCreated(account *domain.Account)
	AccountCreateFailed(kind domain.ErrorKind)
	AccountCreateDuration(d time.Duration)
	AccountQueried()
	TransferQueried()
	LookupFailed(kind domain.ErrorKind)
}

// NopObserver ignores every notification.
type NopObserver struct{}

func (NopObserver) TransferSucceeded(*domain.Transfer)   {}
func (NopObserver) TransferFailed(domain.ErrorKind)      {}
func (NopObserver) TransferDuration(time.Duration)       {}
func (NopObserver) AccountCreated(*domain.Account)       {}
func (NopObserver) AccountCreateFailed(domain.ErrorKind) {}
func (NopObserver) AccountCreateDuration(time.Duration)  {}
func (NopObserver) AccountQueried()                      {}
func (NopObserver) TransferQueried()                     {}
func (NopObserver) LookupFailed(domain.ErrorKind)        {}

// MultiObserver fans notifications out to several observers.
type MultiObserver []Observer

func (m MultiObserver) TransferSucceeded(t *domain.Transfer) {
	for _, o := range m {
		o.TransferSucceeded(t)
	}
}

func (m MultiObserver) TransferFailed(kind domain.ErrorKind) {
	for _, o := range m {
		o.TransferFailed(kind)
	}
}

func (m MultiObserver) TransferDuration(d time.Duration) {
	for _, o := range m {
		o.TransferDuration(d)
	}
}

func (m MultiObserver) AccountCreated(a *domain.Account) {
	for _, o := range m {
		o.AccountCreated(a)
	}
}

func (m MultiObserver) AccountCreateFailed(kind domain.ErrorKind) {
	for _, o := range m {
		o.AccountCreateFailed(kind)
	}
}

func (m MultiObserver) AccountCreateDuration(d time.Duration) {
	for _, o := range m {
		o.AccountCreateDuration(d)
	}
}

func (m MultiObserver) AccountQueried() {
	for _, o := range m {
		o.AccountQueried()
	}
}

func (m MultiObserver) TransferQueried() {
	for _, o := range m {
		o.TransferQueried()
	}
}

func (m MultiObserver) LookupFailed(kind domain.ErrorKind) {
	for _, o := range m {
		o.LookupFailed(kind)
	}
}
