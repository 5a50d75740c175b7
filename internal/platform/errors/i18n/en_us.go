package i18n

var enUSMessages = map[Code]string{
	"UNKNOWN":              "An unexpected error occurred.",
	"INVALID_TRANSITION":   "This action is not allowed while the tournament is {{.State}}.",
	"PERMISSION_DENIED":    "Only a judge can do this.",
	"INVALID_CODE":         "The check-in code is not valid.",
	"BLOCKED":              "Player {{.Player}} cannot check in: {{.Reason}}.",
	"SCORE_ILLEGAL":        "The score is not valid for this table.",
	"SEATING_ILLEGAL":      "The seating is not valid.",
	"UNKNOWN_PLAYER":       "Player {{.Player}} is not registered in this tournament.",
	"UNKNOWN_ROUND":        "Round {{.Round}} does not exist.",
	"UNKNOWN_TABLE":        "Table {{.Table}} does not exist in round {{.Round}}.",
	"PAYLOAD_INVALID":      "The request is malformed.",
	"EVENT_TYPE_UNKNOWN":   "Unknown action {{.Type}}.",
	"CONFIG_PATCH_INVALID": "The tournament settings are not valid.",
	"NOT_FOUND":            "Not found.",
}
