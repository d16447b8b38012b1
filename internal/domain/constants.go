package domain

// Time format constants
const (
	DateFormat      = "2006-01-02"          // YYYY-MM-DD
	TimeFormat      = "15:04"               // HH:MM
	DateTimeFormat  = "2006-01-02 15:04:05" // timestamps in broadcast payloads
	HumanDateFormat = "Jan 2, 2006"         // dates inside notification messages
)

// Business validation constants
const (
	MaxTitleLength              = 255
	MaxDescriptionLength        = 2000
	MaxCancellationReasonLength = 500

	MinBusinessHour = 0
	MaxBusinessHour = 24

	MinSlotIntervalMinutes = 5
	MaxSlotIntervalMinutes = 480 // 8 hours

	MinFutureDays = 1
	MaxFutureDays = 365 // 1 year

	MaxAdvanceNoticeHours     = 168 // 1 week
	MaxCancellationWindowHrs  = 168
	MaxActiveBookingsPerUser  = 100
	MaxRefundPolicyHours      = 720 // 30 days
)

// Default business rule values
const (
	DefaultBusinessHoursStart      = 9  // 9 AM
	DefaultBusinessHoursEnd        = 17 // 5 PM
	DefaultSlotIntervalMinutes     = 30
	DefaultBufferMinutes           = 15
	DefaultMaxFutureDays           = 90
	DefaultMinAdvanceNoticeHours   = 2
	DefaultCancellationWindowHours = 24
	DefaultMaxActivePerUser        = 5
	DefaultAutoConfirm             = false
	DefaultFullRefundHours         = 48
	DefaultPartialRefundHours      = 24
)

// DefaultOpenDays weekdays the business is open by default (Monday..Friday)
var DefaultOpenDays = []string{"monday", "tuesday", "wednesday", "thursday", "friday"}
