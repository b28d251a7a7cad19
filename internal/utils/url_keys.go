package utils

const (
	// IdParamKey is the key for the resource ID used in routing parameters.
	IdParamKey = "id"

	// PhotoIdKey is the key for photo ID used in routing parameters.
	PhotoIdKey = "photoId"

	// CategoryParamKey is the key for category used in query parameters.
	CategoryParamKey = "category"

	// MoodParamKey is the key for mood used in query parameters.
	MoodParamKey = "mood"

	// StartDateParamKey is the key for the lower entry-date bound used in query parameters.
	StartDateParamKey = "startDate"

	// EndDateParamKey is the key for the upper entry-date bound used in query parameters.
	EndDateParamKey = "endDate"

	// SearchParamKey is the key for free-text search used in query parameters.
	SearchParamKey = "search"

	// AlbumIdParamKey is the key for album ID used in query parameters.
	AlbumIdParamKey = "albumId"

	// TypeParamKey is the key for countdown type used in query parameters.
	TypeParamKey = "type"

	// DirectionParamKey is the key for countdown direction used in query parameters.
	DirectionParamKey = "direction"

	// PageParamKey is the key for page used in pagination query parameters.
	PageParamKey = "page"

	// LimitParamKey is the key for limit used in pagination query parameters.
	LimitParamKey = "limit"
)
