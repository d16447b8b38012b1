package policy

import (
	"time"

	"github.com/bookwise-app/booking-backend/internal/domain"
)

// Action действие над бронированием, подлежащее авторизации
type Action string

const (
	ActionViewAny Action = "view_any"
	ActionView    Action = "view"
	ActionCreate  Action = "create"
	ActionUpdate  Action = "update"
	ActionDelete  Action = "delete"
	ActionCancel  Action = "cancel"
)

// Отказы, возвращаемые пользователю как есть
const (
	ReasonNotOwner        = "You do not own this booking."
	ReasonEditNotOwner    = "You can only edit your own bookings."
	ReasonDeleteNotOwner  = "You can only delete your own bookings."
	ReasonPastModify      = "Cannot modify past bookings."
	ReasonPastDelete      = "Cannot delete past bookings."
	ReasonHasPayments     = "Cannot delete booking with payments."
	ReasonNotCancellable  = "This booking cannot be canceled."
	ReasonEmailUnverified = "Your email address is not verified."
	ReasonUnknownAction   = "Unknown action."
)

// Decision результат авторизации: разрешено или отказано с причиной
type Decision struct {
	Allowed bool
	Reason  string // заполнена только при отказе
}

// Allow разрешающее решение
func Allow() Decision {
	return Decision{Allowed: true}
}

// Deny запрещающее решение с человекочитаемой причиной
func Deny(reason string) Decision {
	return Decision{Allowed: false, Reason: reason}
}

// Input вход функции принятия решения
// Booking может быть nil для действий без ресурса (view_any, create)
type Input struct {
	Actor       *domain.User
	Booking     *domain.Booking
	Now         time.Time
	HasPayments bool // есть ли платежи по бронированию (для delete)
}

// Decide принимает решение по (actor, action, booking)
// Цепочка guard-функций вычисляется сверху вниз, первое решающее
// правило останавливает проверку: сначала admin-обход, затем временные
// ограничения, затем ограничения по состоянию ресурса, затем владение
func Decide(action Action, in Input) Decision {
	// Pre-check: админ проходит любую проверку, включая прошедшие бронирования
	if in.Actor.IsAdmin() {
		return Allow()
	}

	switch action {
	case ActionViewAny:
		// Любой аутентифицированный пользователь может запросить список
		return Allow()

	case ActionView:
		if in.Actor.ID == in.Booking.UserID {
			return Allow()
		}
		return Deny(ReasonNotOwner)

	case ActionCreate:
		if in.Actor.HasVerifiedEmail() {
			return Allow()
		}
		return Deny(ReasonEmailUnverified)

	case ActionUpdate:
		return decideUpdate(in)

	case ActionDelete:
		if in.Booking.IsPast(in.Now) {
			return Deny(ReasonPastDelete)
		}
		if in.HasPayments {
			return Deny(ReasonHasPayments)
		}
		if in.Actor.ID == in.Booking.UserID {
			return Allow()
		}
		return Deny(ReasonDeleteNotOwner)

	case ActionCancel:
		if !in.Booking.IsRefundable(in.Now) {
			return Deny(ReasonNotCancellable)
		}
		// Дальше действуют те же правила, что и для update
		return decideUpdate(in)

	default:
		return Deny(ReasonUnknownAction)
	}
}

func decideUpdate(in Input) Decision {
	if in.Booking.IsPast(in.Now) {
		return Deny(ReasonPastModify)
	}
	if in.Actor.ID == in.Booking.UserID {
		return Allow()
	}
	return Deny(ReasonEditNotOwner)
}
