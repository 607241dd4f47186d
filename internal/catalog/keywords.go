package catalog

func defaultKeywords() []string {
	return []string{
		// conflict
		"war", "guerre", "attack", "attaque", "killed", "tué", "dead", "mort",
		"fighting", "combat", "explosion", "bombing", "attentat", "airstrike",
		"casualties", "wounded", "blessé", "violence",
		// political
		"coup", "putsch", "election", "élection", "protest", "manifestation",
		"president", "président", "government", "gouvernement", "minister",
		// humanitarian
		"famine", "drought", "sécheresse", "flood", "inondation",
		"refugees", "réfugiés", "displaced", "déplacés", "crisis", "crise",
		"humanitarian", "humanitaire", "epidemic", "épidémie",
		// security
		"rebel", "rebelle", "militia", "milice", "terrorist", "terroriste",
		"jihadist", "djihadiste", "insurgent", "armed group",
		"al-shabaab", "boko haram", "wagner", "m23", "rsf", "ceasefire",
	}
}
