package errors

import "net/http"

var (
	ErrPlaceNotFound = New(
		"PLACE_NOT_FOUND",
		"Place not found",
		http.StatusNotFound,
	)

	ErrMissingFields = New(
		"MISSING_FIELDS",
		"Missing required fields.",
		http.StatusBadRequest,
	)

	ErrInvalidStatus = New(
		"INVALID_STATUS",
		"Invalid status.",
		http.StatusBadRequest,
	)

	ErrInvalidName = New(
		"INVALID_NAME",
		"Invalid name.",
		http.StatusBadRequest,
	)

	ErrInvalidCoordinates = New(
		"INVALID_COORDINATES",
		"Invalid coordinates provided",
		http.StatusBadRequest,
	)

	ErrInvalidRequest = New(
		"INVALID_REQUEST",
		"Invalid request parameters",
		http.StatusBadRequest,
	)

	ErrInvalidFileType = New(
		"INVALID_FILE_TYPE",
		"Uploaded file is not an allowed image type",
		http.StatusBadRequest,
	)

	ErrFileTooLarge = New(
		"FILE_TOO_LARGE",
		"Uploaded file exceeds the size limit",
		http.StatusBadRequest,
	)

	ErrDatabaseError = New(
		"DATABASE_ERROR",
		"Database operation failed",
		http.StatusInternalServerError,
	)

	ErrCacheError = New(
		"CACHE_ERROR",
		"Cache operation failed",
		http.StatusInternalServerError,
	)

	ErrUploadFailed = New(
		"UPLOAD_FAILED",
		"Failed to store uploaded file",
		http.StatusInternalServerError,
	)

	ErrInternalServer = New(
		"INTERNAL_SERVER_ERROR",
		"Internal server error",
		http.StatusInternalServerError,
	)
)
