package domain

import "strings"

const (
	LocaleEN = "en"
	LocaleID = "id"
)

// SupportedLocales lists the locales the message catalogue covers. The first
// entry is the fallback.
var SupportedLocales = []string{LocaleEN, LocaleID}

var catalogue = map[string]map[error]string{
	LocaleEN: {
		ErrMissingInput:     "Please make sure both players have uploaded a photo, and you have drawn an adjective!",
		ErrEncodingFailed:   "One of the photos could not be read. Please upload it again.",
		ErrPolicyBlocked:    "Request blocked for safety reasons. Please try different images.",
		ErrNoImageReturned:  "The model did not return an image. Please try again.",
		ErrGenerationFailed: "Could not create the magic image.",
		ErrInFlight:         "A magic image is already being created.",
		ErrInvalidSlot:      "Unknown player slot.",
		ErrUnsupportedMedia: "Please upload an image file.",
		ErrSessionClosed:    "This session has ended. Please reload the page.",
		ErrUploadTooLarge:   "That photo is too large. Please choose a smaller one.",
	},
	LocaleID: {
		ErrMissingInput:     "Pastikan kedua pemain sudah mengunggah foto dan kata sifat sudah diundi!",
		ErrEncodingFailed:   "Salah satu foto tidak dapat dibaca. Silakan unggah ulang.",
		ErrPolicyBlocked:    "Permintaan diblokir karena alasan keamanan. Silakan coba foto lain.",
		ErrNoImageReturned:  "Model tidak mengembalikan gambar. Silakan coba lagi.",
		ErrGenerationFailed: "Gagal membuat gambar ajaib.",
		ErrInFlight:         "Gambar ajaib sedang dibuat.",
		ErrInvalidSlot:      "Slot pemain tidak dikenal.",
		ErrUnsupportedMedia: "Silakan unggah berkas gambar.",
		ErrSessionClosed:    "Sesi ini sudah berakhir. Silakan muat ulang halaman.",
		ErrUploadTooLarge:   "Foto terlalu besar. Silakan pilih foto yang lebih kecil.",
	},
}

// Message returns the user-facing text for kind in locale, falling back to
// English for unknown locales.
func Message(kind error, locale string) string {
	msgs, ok := catalogue[NormalizeLocale(locale)]
	if !ok {
		msgs = catalogue[LocaleEN]
	}
	if msg, ok := msgs[kind]; ok {
		return msg
	}
	if kind != nil {
		return kind.Error()
	}
	return catalogue[LocaleEN][ErrGenerationFailed]
}

// NormalizeLocale reduces a language tag to a catalogue locale.
func NormalizeLocale(locale string) string {
	locale = strings.ToLower(strings.TrimSpace(locale))
	if strings.HasPrefix(locale, LocaleID) {
		return LocaleID
	}
	return LocaleEN
}
