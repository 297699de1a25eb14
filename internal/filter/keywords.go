package filter

// defaultKeywords are the built-in per-language outbreak keyword lists.
// All entries are matched case-insensitively as substrings over
// title + content. Config can extend but not replace these.
var defaultKeywords = map[string][]string{
	"en": {
		"outbreak", "epidemic", "pandemic", "infection", "infectious",
		"virus", "cases reported", "disease spread", "quarantine",
		"cholera", "ebola", "measles", "dengue", "influenza", "avian flu",
		"health emergency", "public health alert", "contagion",
	},
	"es": {
		"brote", "epidemia", "pandemia", "infección", "contagio",
		"virus", "casos confirmados", "cuarentena", "cólera", "sarampión",
		"dengue", "gripe", "emergencia sanitaria", "alerta sanitaria",
	},
	"fr": {
		"épidémie", "pandémie", "flambée", "infection", "contagion",
		"virus", "cas confirmés", "quarantaine", "choléra", "rougeole",
		"dengue", "grippe", "urgence sanitaire", "alerte sanitaire",
	},
	"pt": {
		"surto", "epidemia", "pandemia", "infecção", "contágio",
		"vírus", "casos confirmados", "quarentena", "cólera", "sarampo",
		"dengue", "gripe", "emergência sanitária", "alerta sanitário",
	},
	"zh": {
		"疫情", "爆发", "流行病", "感染", "病毒", "隔离", "霍乱",
		"麻疹", "登革热", "流感", "卫生紧急",
	},
	"ar": {
		"تفشي", "وباء", "جائحة", "عدوى", "فيروس", "حجر صحي",
		"كوليرا", "حصبة", "حمى الضنك", "إنفلونزا", "طوارئ صحية",
	},
}
