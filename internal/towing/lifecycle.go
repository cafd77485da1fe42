// Package towing owns the tow-request status lifecycle: which transitions
// are legal, which side-effect fields they stamp, and when a request may be
// deleted. Handlers never touch the status column directly.
package towing

import (
	"errors"
	"time"

	"gruago/internal/model"

	"gorm.io/gorm"
)

var (
	// ErrNotFound is returned when the request id does not exist
	ErrNotFound = errors.New("tow request not found")
	// ErrInvalidStatus is returned for an unrecognized status value
	ErrInvalidStatus = errors.New("invalid status value")
	// ErrMissingDriver is returned when assigning without a driver id
	ErrMissingDriver = errors.New("driver id is required when assigning a request")
	// ErrNotPending is returned when deleting a request past pending
	ErrNotPending = errors.New("only pending requests can be deleted")
	// ErrTransitionOrder is returned by the strict-order policy for
	// backward transitions
	ErrTransitionOrder = errors.New("status cannot move backwards")
)

// statusRank orders the forward path for the optional strict policy.
// Cancelled is reachable from anywhere.
var statusRank = map[string]int{
	model.StatusPending:    0,
	model.StatusAssigned:   1,
	model.StatusInProgress: 2,
	model.StatusCompleted:  3,
}

// Lifecycle applies guarded status transitions to tow requests. Every
// guarded operation runs its read and write inside one transaction, so the
// state a guard saw is the state the write applies to.
type Lifecycle struct {
	db *gorm.DB

	// StrictOrder enables the forward-only transition policy. The stored
	// behavior is permissive: any recognized status may be applied from any
	// prior status.
	StrictOrder bool
}

// NewLifecycle creates a lifecycle manager over the shared pool
func NewLifecycle(db *gorm.DB) *Lifecycle {
	return &Lifecycle{db: db}
}

// SetStatus transitions a request to newStatus.
//
// Side effects: assigned sets driver_id (driverID is mandatory there),
// in_progress stamps started_at, completed stamps completed_at. Cancelled
// and pending change only the status column. Neither timestamp requires the
// canonical prior state; that permissiveness is deliberate.
func (l *Lifecycle) SetStatus(id uint, newStatus string, driverID *uint) (*model.TowRequest, error) {
	if !model.ValidStatus(newStatus) {
		return nil, ErrInvalidStatus
	}
	if newStatus == model.StatusAssigned && driverID == nil {
		return nil, ErrMissingDriver
	}

	var request model.TowRequest
	err := l.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&request, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		if l.StrictOrder {
			if err := checkOrder(request.Status, newStatus); err != nil {
				return err
			}
		}

		updates := map[string]interface{}{"status": newStatus}
		switch newStatus {
		case model.StatusAssigned:
			updates["driver_id"] = *driverID
		case model.StatusInProgress:
			updates["started_at"] = time.Now()
		case model.StatusCompleted:
			updates["completed_at"] = time.Now()
		}

		return tx.Model(&request).Updates(updates).Error
	})
	if err != nil {
		return nil, err
	}

	return &request, nil
}

// Delete removes a request that is still pending. Anything past pending is
// part of dispatch history and stays.
func (l *Lifecycle) Delete(id uint) (*model.TowRequest, error) {
	var request model.TowRequest
	err := l.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&request, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		if request.Status != model.StatusPending {
			return ErrNotPending
		}

		return tx.Delete(&request).Error
	})
	if err != nil {
		return nil, err
	}

	return &request, nil
}

func checkOrder(current, next string) error {
	// Cancellation is always reachable; re-cancelling is a no-op move
	if next == model.StatusCancelled {
		return nil
	}
	currentRank, ok := statusRank[current]
	if !ok {
		// Cancelled requests can only stay cancelled under strict order
		return ErrTransitionOrder
	}
	if statusRank[next] < currentRank {
		return ErrTransitionOrder
	}
	return nil
}
