package i18n

var frFRMessages = map[Code]string{
	"UNKNOWN":              "Une erreur inattendue est survenue.",
	"INVALID_TRANSITION":   "Cette action n'est pas permise lorsque le tournoi est {{.State}}.",
	"PERMISSION_DENIED":    "Seul un juge peut faire cela.",
	"INVALID_CODE":         "Le code d'enregistrement n'est pas valide.",
	"BLOCKED":              "Le joueur {{.Player}} ne peut pas s'enregistrer : {{.Reason}}.",
	"SCORE_ILLEGAL":        "Le score n'est pas valide pour cette table.",
	"SEATING_ILLEGAL":      "Le placement n'est pas valide.",
	"UNKNOWN_PLAYER":       "Le joueur {{.Player}} n'est pas inscrit à ce tournoi.",
	"UNKNOWN_ROUND":        "La ronde {{.Round}} n'existe pas.",
	"UNKNOWN_TABLE":        "La table {{.Table}} n'existe pas dans la ronde {{.Round}}.",
	"PAYLOAD_INVALID":      "La requête est mal formée.",
	"EVENT_TYPE_UNKNOWN":   "Action inconnue {{.Type}}.",
	"CONFIG_PATCH_INVALID": "Les paramètres du tournoi ne sont pas valides.",
	"NOT_FOUND":            "Introuvable.",
}
