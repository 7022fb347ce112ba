package testutil

import (
	"context"
	"errors"

	"github.com/mcoot/cricketreg/internal/model"
	"github.com/mcoot/cricketreg/internal/storage"
)

// ErrStorageDown is returned by FlakyStorage when a failure is switched on
var ErrStorageDown = errors.New("storage unavailable")

// FlakyStorage wraps a Storage and fails selected operations on demand
type FlakyStorage struct {
	storage.Storage

	FailWrites    bool
	FailReads     bool
	FailAllowList bool

	// BeforeList runs once, inside the next ListRegistrations call
	BeforeList func()
}

// NewFlakyStorage wraps inner with all failures switched off
func NewFlakyStorage(inner storage.Storage) *FlakyStorage {
	return &FlakyStorage{Storage: inner}
}

func (f *FlakyStorage) SaveRegistration(ctx context.Context, reg *model.PlayerRegistration) error {
	if f.FailWrites {
		return ErrStorageDown
	}
	return f.Storage.SaveRegistration(ctx, reg)
}

func (f *FlakyStorage) ListRegistrations(ctx context.Context, league model.League) ([]*model.PlayerRegistration, error) {
	if f.FailReads {
		return nil, ErrStorageDown
	}
	if hook := f.BeforeList; hook != nil {
		f.BeforeList = nil
		hook()
	}
	return f.Storage.ListRegistrations(ctx, league)
}

func (f *FlakyStorage) IsAdmin(ctx context.Context, id model.UserID) (bool, error) {
	if f.FailAllowList {
		return false, ErrStorageDown
	}
	// Network backends fail calls made with a finished context
	if err := ctx.Err(); err != nil {
		return false, err
	}
	return f.Storage.IsAdmin(ctx, id)
}
