package config

const (
	// Storage errors
	ErrOpenStorageFmt = "Failed to open storage: %v"
	ErrUnknownBackend = "unknown storage backend"

	// Gate messages
	ErrInvalidPassword = "Invalid password."
	MsgAccessGranted   = "Access granted. Welcome!"

	// Editor messages
	ErrEmptyTopic     = "Enter a thread topic first!"
	ErrTopicRequired  = "The topic can't be empty!"
	ErrNotGenerated   = "Generate the thread slots before saving!"
	ErrOverLimit      = "Some tweets are over 280 characters!"
	MsgDraftSaved     = "Draft saved!"
	MsgDraftUpdated   = "Draft updated!"
	MsgDraftDeleted   = "Draft deleted"
	ErrSaveFailedFmt  = "Failed to save draft: %v"
	ErrInternalServer = "Internal server error"

	// List messages
	MsgDraftImported   = "Draft imported!"
	ErrImportFailedFmt = "Failed to import draft: %v"
	ErrDeleteFailedFmt = "Failed to delete draft: %v"
	ErrThreadNotFound  = "Thread not found"
)
