package config

import "time"

// Application-wide constants organized by domain

// UI and Display Constants
const (
	// Pagination
	RemindersPerPage = 5

	// Colors
	ErrorColor        = 0xFF0000
	SuccessColor      = 0x00FF00
	InfoColor         = 0x0099FF
	WarningColor      = 0xFFAA00
	AnnouncementColor = 0x3498DB
	EmbedDefaultColor = 0x2B2D31

	// Discord limits
	MaxEmbedFields      = 25
	MaxButtonsPerRow    = 5
	MaxActionRows       = 5
	EmptyFieldText      = "\u200b"
	ReminderButtonEmoji = "🔔"
)

// Database and Performance Constants
const (
	// Timeouts
	DefaultQueryTimeout  = 30 * time.Second
	SchedulerTickTimeout = 45 * time.Second
	ComponentTimeout     = 10 * time.Second
	ChannelSendTimeout   = 10 * time.Second
	ShutdownTimeout      = 10 * time.Second
	NetworkDialTimeout   = 5 * time.Second

	// Fan-out
	MaxConcurrentSends = 4

	// Cache settings
	FragmentCacheSize = 1024
)

// Reminder Constants
const (
	DefaultCheckInterval   = 60 * time.Second
	DefaultDueWindow       = 1800 * time.Second
	DefaultCleanupInterval = 60 * time.Second
	DefaultLeadTime        = 30 * time.Minute

	MessageLinkFormat = "https://discord.com/channels/%s/%s/%s"
)
