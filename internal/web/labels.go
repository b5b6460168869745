package web

import "adjectivemagic/internal/domain"

// Labels holds the fixed interface text of one locale.
type Labels struct {
	Title         string
	Tagline       string
	ChoosePhoto   string
	Upload        string
	NameLabel     string
	Rename        string
	DrawAdjective string
	NoAdjective   string
	MakeMagic     string
	Working       string
	ResultEmpty   string
	ResultAlt     string
	OpenGallery   string
	CloseGallery  string
	GalleryTitle  string
	GalleryEmpty  string
	Download      string
	Versus        string
	StartOver     string
}

var labels = map[string]Labels{
	domain.LocaleEN: {
		Title:         "Adjective Magic",
		Tagline:       "Upload two photos, draw an adjective and let the magic compare them.",
		ChoosePhoto:   "Choose photo",
		Upload:        "Upload",
		NameLabel:     "Name",
		Rename:        "Save name",
		DrawAdjective: "Draw adjective",
		NoAdjective:   "No adjective yet",
		MakeMagic:     "Make Magic",
		Working:       "Creating magic...",
		ResultEmpty:   "Your magic image will appear here.",
		ResultAlt:     "Comparison of",
		OpenGallery:   "Gallery",
		CloseGallery:  "Close",
		GalleryTitle:  "Magic gallery",
		GalleryEmpty:  "No magic images yet.",
		Download:      "Download all",
		Versus:        "vs",
		StartOver:     "Start over",
	},
	domain.LocaleID: {
		Title:         "Sihir Kata Sifat",
		Tagline:       "Unggah dua foto, undi kata sifat, lalu biarkan sihir membandingkannya.",
		ChoosePhoto:   "Pilih foto",
		Upload:        "Unggah",
		NameLabel:     "Nama",
		Rename:        "Simpan nama",
		DrawAdjective: "Undi kata sifat",
		NoAdjective:   "Belum ada kata sifat",
		MakeMagic:     "Buat Sihir",
		Working:       "Sedang membuat sihir...",
		ResultEmpty:   "Gambar ajaibmu akan muncul di sini.",
		ResultAlt:     "Perbandingan",
		OpenGallery:   "Galeri",
		CloseGallery:  "Tutup",
		GalleryTitle:  "Galeri sihir",
		GalleryEmpty:  "Belum ada gambar ajaib.",
		Download:      "Unduh semua",
		Versus:        "vs",
		StartOver:     "Mulai ulang",
	},
}

// LabelsFor returns the labels of locale, English when unsupported.
func LabelsFor(locale string) Labels {
	if l, ok := labels[domain.NormalizeLocale(locale)]; ok {
		return l
	}
	return labels[domain.LocaleEN]
}
