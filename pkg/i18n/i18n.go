// Package i18n provides locale-string lookup for emails and push
// notifications. Only a handful of keys exist; unknown languages fall
// back to en-US.
package i18n

import "strings"

const DefaultLang = "en-US"

var strictLangs = map[string]bool{
	"en-US": true,
	"fi-FI": true,
	"sv-SE": true,
	"de-DE": true,
	"fr-FR": true,
}

var catalog = map[string]map[string]string{
	"en-US": {
		"signup.emailSubject":        "Welcome to Locshare",
		"signup.emailText":           "Your account is ready. Open the app and start sharing your location with people you trust.",
		"invite.emailSubject":        "You have been invited to Locshare",
		"invite.emailText":           "{{inviter}} wants to share their location with you ({{target}}). Install the app and sign up with this email address to see it.",
		"reset.emailSubject":         "Recover your Locshare account",
		"reset.emailText":            "Somebody (hopefully you) signed in from a new device. Open this link to allow the new device: {{resetLink}}. If this was not you, you can ignore this message.",
		"reset.serverMessage":        "Account recovery enabled. Sign up again from your new device within the recovery window.",
		"push.friendLocationRequest": "A friend wants to see your location. Open the app to update it.",
	},
	"fi-FI": {
		"signup.emailSubject":        "Tervetuloa Locshareen",
		"signup.emailText":           "Tilisi on valmis. Avaa sovellus ja jaa sijaintisi luotettavien ihmisten kanssa.",
		"invite.emailSubject":        "Sinut on kutsuttu Locshareen",
		"invite.emailText":           "{{inviter}} haluaa jakaa sijaintinsa kanssasi ({{target}}). Asenna sovellus ja rekisteröidy tällä sähköpostiosoitteella.",
		"reset.emailSubject":         "Palauta Locshare-tilisi",
		"reset.emailText":            "Joku (toivottavasti sinä) kirjautui uudelta laitteelta. Avaa tämä linkki salliaksesi uuden laitteen: {{resetLink}}.",
		"reset.serverMessage":        "Tilin palautus käytössä. Rekisteröidy uudelleen uudelta laitteeltasi palautusikkunan aikana.",
		"push.friendLocationRequest": "Ystäväsi haluaa nähdä sijaintisi. Avaa sovellus päivittääksesi sen.",
	},
}

// VerifyLangCode returns lang when it has a full catalog, DefaultLang otherwise.
// Languages with partial or missing catalogs still resolve individual keys
// through the en-US fallback in Get.
func VerifyLangCode(lang string) string {
	if strictLangs[lang] {
		return lang
	}
	return DefaultLang
}

// Get returns the localized string for key, substituting {{name}} style
// placeholders from params (given as name, value pairs).
func Get(lang, key string, params ...string) string {
	msgs, ok := catalog[lang]
	if !ok {
		msgs = catalog[DefaultLang]
	}
	msg, ok := msgs[key]
	if !ok {
		msg = catalog[DefaultLang][key]
	}
	for i := 0; i+1 < len(params); i += 2 {
		msg = strings.ReplaceAll(msg, "{{"+params[i]+"}}", params[i+1])
	}
	return msg
}
