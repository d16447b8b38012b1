package policy

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/bookwise-app/booking-backend/internal/domain"
)

var testNow = time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)

func user(id int64, role domain.Role) *domain.User {
	verifiedAt := testNow.Add(-24 * time.Hour)
	return &domain.User{ID: id, Role: role, EmailVerifiedAt: &verifiedAt}
}

func futureBooking(ownerID int64) *domain.Booking {
	return &domain.Booking{
		ID:        1,
		UserID:    ownerID,
		StartTime: testNow.Add(48 * time.Hour),
		EndTime:   testNow.Add(49 * time.Hour),
		Status:    domain.StatusConfirmed,
	}
}

func pastBooking(ownerID int64) *domain.Booking {
	return &domain.Booking{
		ID:        1,
		UserID:    ownerID,
		StartTime: testNow.Add(-48 * time.Hour),
		EndTime:   testNow.Add(-47 * time.Hour),
		Status:    domain.StatusConfirmed,
	}
}

func TestDecide_AdminBypassesAllChecks(t *testing.T) {
	admin := user(99, domain.RoleAdmin)

	// Админ проходит даже проверки, блокирующие всех остальных:
	// прошедшее бронирование с платежами
	decision := Decide(ActionDelete, Input{
		Actor:       admin,
		Booking:     pastBooking(1),
		Now:         testNow,
		HasPayments: true,
	})

	assert.True(t, decision.Allowed)

	decision = Decide(ActionUpdate, Input{Actor: admin, Booking: pastBooking(1), Now: testNow})
	assert.True(t, decision.Allowed)
}

func TestDecide_View(t *testing.T) {
	owner := user(1, domain.RoleUser)
	stranger := user(2, domain.RoleUser)
	booking := futureBooking(1)

	assert.True(t, Decide(ActionView, Input{Actor: owner, Booking: booking, Now: testNow}).Allowed)

	decision := Decide(ActionView, Input{Actor: stranger, Booking: booking, Now: testNow})
	assert.False(t, decision.Allowed)
	assert.Equal(t, ReasonNotOwner, decision.Reason)

	// Менеджер без владения не видит чужое бронирование
	manager := user(3, domain.RoleManager)
	assert.False(t, Decide(ActionView, Input{Actor: manager, Booking: booking, Now: testNow}).Allowed)
}

func TestDecide_Create(t *testing.T) {
	verified := user(1, domain.RoleUser)
	assert.True(t, Decide(ActionCreate, Input{Actor: verified, Now: testNow}).Allowed)

	unverified := &domain.User{ID: 2, Role: domain.RoleUser}
	decision := Decide(ActionCreate, Input{Actor: unverified, Now: testNow})
	assert.False(t, decision.Allowed)
	assert.Equal(t, ReasonEmailUnverified, decision.Reason)
}

func TestDecide_Update(t *testing.T) {
	owner := user(1, domain.RoleUser)
	stranger := user(2, domain.RoleUser)

	assert.True(t, Decide(ActionUpdate, Input{Actor: owner, Booking: futureBooking(1), Now: testNow}).Allowed)

	// Временная проверка срабатывает раньше проверки владения
	decision := Decide(ActionUpdate, Input{Actor: stranger, Booking: pastBooking(1), Now: testNow})
	assert.Equal(t, ReasonPastModify, decision.Reason)

	decision = Decide(ActionUpdate, Input{Actor: stranger, Booking: futureBooking(1), Now: testNow})
	assert.Equal(t, ReasonEditNotOwner, decision.Reason)
}

func TestDecide_Delete(t *testing.T) {
	owner := user(1, domain.RoleUser)

	assert.True(t, Decide(ActionDelete, Input{Actor: owner, Booking: futureBooking(1), Now: testNow}).Allowed)

	decision := Decide(ActionDelete, Input{Actor: owner, Booking: pastBooking(1), Now: testNow})
	assert.Equal(t, ReasonPastDelete, decision.Reason)

	// Проверка платежей идет после временной, но до владения
	decision = Decide(ActionDelete, Input{
		Actor:       owner,
		Booking:     futureBooking(1),
		Now:         testNow,
		HasPayments: true,
	})
	assert.Equal(t, ReasonHasPayments, decision.Reason)

	stranger := user(2, domain.RoleUser)
	decision = Decide(ActionDelete, Input{Actor: stranger, Booking: futureBooking(1), Now: testNow})
	assert.Equal(t, ReasonDeleteNotOwner, decision.Reason)
}

func TestDecide_Cancel(t *testing.T) {
	owner := user(1, domain.RoleUser)

	assert.True(t, Decide(ActionCancel, Input{Actor: owner, Booking: futureBooking(1), Now: testNow}).Allowed)

	// Отмененное бронирование не может быть отменено повторно
	cancelled := futureBooking(1)
	cancelled.Status = domain.StatusCancelled
	decision := Decide(ActionCancel, Input{Actor: owner, Booking: cancelled, Now: testNow})
	assert.Equal(t, ReasonNotCancellable, decision.Reason)

	// Прошедшее бронирование тоже не отменяемо
	decision = Decide(ActionCancel, Input{Actor: owner, Booking: pastBooking(1), Now: testNow})
	assert.Equal(t, ReasonNotCancellable, decision.Reason)

	// Не владелец отменить не может
	stranger := user(2, domain.RoleUser)
	decision = Decide(ActionCancel, Input{Actor: stranger, Booking: futureBooking(1), Now: testNow})
	assert.Equal(t, ReasonEditNotOwner, decision.Reason)
}

func TestDecide_ViewAny(t *testing.T) {
	assert.True(t, Decide(ActionViewAny, Input{Actor: user(1, domain.RoleUser), Now: testNow}).Allowed)
}

func TestDecide_UnknownAction(t *testing.T) {
	decision := Decide(Action("archive"), Input{Actor: user(1, domain.RoleUser), Now: testNow})
	assert.False(t, decision.Allowed)
	assert.Equal(t, ReasonUnknownAction, decision.Reason)
}
