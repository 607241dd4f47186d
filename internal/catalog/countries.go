package catalog

// Region names follow the dashboard grouping.
const (
	RegionNorth   = "North"
	RegionWest    = "West"
	RegionCentral = "Central"
	RegionEast    = "East"
	RegionSouth   = "South"
)

// Regions lists the regions in display order.
var Regions = []string{RegionNorth, RegionWest, RegionCentral, RegionEast, RegionSouth}

// Terms are matched as whole words on lowercased text. Patterns carry the
// lookbehind/lookahead rules for names that are substrings of other names
// (Sudan inside South Sudan, Guinea inside Equatorial Guinea or Guinea-Bissau).
// French puts the qualifier after the name ("Soudan du Sud", "Guinée
// équatoriale"), hence the lookaheads.
// Maurice and Victoria are left out on purpose: both are common first names.
func defaultEntities() []Entity {
	return []Entity{
		// North
		{Name: "Morocco", Region: RegionNorth, Terms: []string{"Morocco", "Maroc", "Moroccan"}, Baseline: 3},
		{Name: "Algeria", Region: RegionNorth, Terms: []string{"Algeria", "Algérie", "Algerian"}, Baseline: 3},
		{Name: "Tunisia", Region: RegionNorth, Terms: []string{"Tunisia", "Tunisie", "Tunisian"}, Baseline: 2},
		{Name: "Libya", Region: RegionNorth, Terms: []string{"Libya", "Libye", "Libyan", "Tripoli"}, Baseline: 4},
		{Name: "Egypt", Region: RegionNorth, Terms: []string{"Egypt", "Égypte", "Egyptian", "Cairo"}, Baseline: 5},
		{
			Name:     "Sudan",
			Region:   RegionNorth,
			Terms:    []string{"Khartoum", "Darfur", "RSF", "SAF"},
			Patterns: []string{
				`(?<!south[ -])\bsudan(ese)?\b`,
				`(?<!sud[ -])soudan(ais)?\b(?! du sud)`,
			},
			Baseline: 5,
		},

		// West
		{Name: "Mauritania", Region: RegionWest, Terms: []string{"Mauritania", "Mauritanie", "Nouakchott"}, Baseline: 1},
		{Name: "Mali", Region: RegionWest, Terms: []string{"Mali", "Malian", "Malien", "Bamako"}, Baseline: 4},
		{Name: "Burkina Faso", Region: RegionWest, Terms: []string{"Burkina Faso", "Burkina", "Burkinabè", "Ouagadougou"}, Baseline: 4},
		{Name: "Niger", Region: RegionWest, Terms: []string{"Niger", "Nigerien", "Nigérien", "Niamey"}, Baseline: 3},
		{Name: "Senegal", Region: RegionWest, Terms: []string{"Senegal", "Sénégal", "Senegalese", "Sénégalais", "Dakar"}, Baseline: 3},
		{Name: "Gambia", Region: RegionWest, Terms: []string{"Gambia", "Gambie", "Gambian", "Banjul"}, Baseline: 1},
		{Name: "Guinea-Bissau", Region: RegionWest, Terms: []string{"Guinea-Bissau", "Guinée-Bissau", "Bissau"}, Baseline: 1},
		{
			Name:     "Guinea",
			Region:   RegionWest,
			Terms:    []string{"Guinean", "Guinéen", "Conakry"},
			Patterns: []string{
				`(?<!equatorial )(?<!équatoriale )guinea\b(?!-)`,
				`(?<!équatoriale )guinée\b(?!-)(?! équatoriale)`,
			},
			Baseline: 2,
		},
		{Name: "Sierra Leone", Region: RegionWest, Terms: []string{"Sierra Leone", "Freetown"}, Baseline: 2},
		{Name: "Liberia", Region: RegionWest, Terms: []string{"Liberia", "Liberian", "Monrovia"}, Baseline: 2},
		{Name: "Côte d'Ivoire", Region: RegionWest, Terms: []string{"Côte d'Ivoire", "Ivory Coast", "Ivorian", "Ivoirien", "Abidjan"}, Baseline: 3},
		{Name: "Ghana", Region: RegionWest, Terms: []string{"Ghana", "Ghanaian", "Ghanéen", "Accra"}, Baseline: 3},
		{Name: "Togo", Region: RegionWest, Terms: []string{"Togo", "Togolese", "Togolais", "Lomé"}, Baseline: 1},
		{Name: "Benin", Region: RegionWest, Terms: []string{"Benin", "Bénin", "Beninese", "Béninois", "Cotonou"}, Baseline: 1},
		{Name: "Nigeria", Region: RegionWest, Terms: []string{"Nigeria", "Nigerian", "Nigérian", "Abuja", "Lagos", "Boko Haram"}, Baseline: 6},
		{Name: "Cape Verde", Region: RegionWest, Terms: []string{"Cape Verde", "Cabo Verde", "Cap-Vert", "Praia"}, Baseline: 0.5},

		// Central
		{Name: "Chad", Region: RegionCentral, Terms: []string{"Chad", "Tchad", "Chadian", "Tchadien", "N'Djamena"}, Baseline: 2},
		{Name: "Cameroon", Region: RegionCentral, Terms: []string{"Cameroon", "Cameroun", "Cameroonian", "Camerounais", "Yaoundé", "Douala"}, Baseline: 3},
		{Name: "CAR", Region: RegionCentral, Terms: []string{"Central African Republic", "Centrafrique", "Centrafricain", "Bangui", "RCA"}, Baseline: 2},
		{Name: "South Sudan", Region: RegionCentral, Terms: []string{"South Sudan", "South-Sudan", "Soudan du Sud", "Sud-Soudan", "South Sudanese", "South-Sudanese", "Juba"}, Baseline: 4},
		{Name: "Eq. Guinea", Region: RegionCentral, Terms: []string{"Equatorial Guinea", "Guinée équatoriale", "Malabo"}, Baseline: 0.5},
		{Name: "Gabon", Region: RegionCentral, Terms: []string{"Gabon", "Gabonese", "Gabonais", "Libreville"}, Baseline: 1},
		{Name: "Congo", Region: RegionCentral, Terms: []string{"Congo-Brazzaville", "Republic of Congo", "République du Congo", "Brazzaville"}, Baseline: 1},
		{
			Name:   "DRC",
			Region: RegionCentral,
			Terms: []string{
				"DRC", "RDC", "Democratic Republic of Congo", "République démocratique du Congo",
				"Congo-Kinshasa", "Kinshasa", "Goma", "M23", "Lubumbashi",
			},
			Baseline: 5,
		},
		{Name: "São Tomé", Region: RegionCentral, Terms: []string{"São Tomé", "Sao Tome", "São Tomé-et-Príncipe"}, Baseline: 0.5},
		{Name: "Angola", Region: RegionCentral, Terms: []string{"Angola", "Angolan", "Angolais", "Luanda"}, Baseline: 2},

		// East
		{Name: "Eritrea", Region: RegionEast, Terms: []string{"Eritrea", "Érythrée", "Eritrean", "Érythréen", "Asmara"}, Baseline: 2},
		{Name: "Djibouti", Region: RegionEast, Terms: []string{"Djibouti", "Djiboutian", "Djiboutien"}, Baseline: 1},
		{
			Name:   "Ethiopia",
			Region: RegionEast,
			Terms: []string{
				"Ethiopia", "Éthiopie", "Ethiopian", "Éthiopien", "Addis Ababa", "Addis-Abeba", "Tigray", "Amhara",
			},
			Baseline: 5,
		},
		{Name: "Somalia", Region: RegionEast, Terms: []string{"Somalia", "Somalie", "Somali", "Somalien", "Mogadishu", "Mogadiscio", "Al-Shabaab"}, Baseline: 4},
		{Name: "Uganda", Region: RegionEast, Terms: []string{"Uganda", "Ouganda", "Ugandan", "Ougandais", "Kampala"}, Baseline: 3},
		{Name: "Kenya", Region: RegionEast, Terms: []string{"Kenya", "Kenyan", "Kényan", "Nairobi", "Mombasa"}, Baseline: 4},
		{Name: "Rwanda", Region: RegionEast, Terms: []string{"Rwanda", "Rwandan", "Rwandais", "Kigali"}, Baseline: 3},
		{Name: "Burundi", Region: RegionEast, Terms: []string{"Burundi", "Burundian", "Burundais", "Bujumbura", "Gitega"}, Baseline: 1},
		{Name: "Tanzania", Region: RegionEast, Terms: []string{"Tanzania", "Tanzanie", "Tanzanian", "Tanzanien", "Dar es Salaam", "Dodoma"}, Baseline: 3},
		{Name: "Madagascar", Region: RegionEast, Terms: []string{"Madagascar", "Malagasy", "Malgache", "Antananarivo"}, Baseline: 2},
		{Name: "Comoros", Region: RegionEast, Terms: []string{"Comoros", "Comores", "Comorian", "Comorien", "Moroni"}, Baseline: 0.5},
		{Name: "Mauritius", Region: RegionEast, Terms: []string{"Mauritius", "Mauritian", "Mauricien", "Port Louis"}, Baseline: 1},
		{Name: "Seychelles", Region: RegionEast, Terms: []string{"Seychelles", "Seychellois"}, Baseline: 0.5},

		// South
		{Name: "Zambia", Region: RegionSouth, Terms: []string{"Zambia", "Zambie", "Zambian", "Zambien", "Lusaka"}, Baseline: 2},
		{Name: "Malawi", Region: RegionSouth, Terms: []string{"Malawi", "Malawian", "Malawien", "Lilongwe", "Blantyre"}, Baseline: 1},
		{Name: "Mozambique", Region: RegionSouth, Terms: []string{"Mozambique", "Mozambican", "Mozambicain", "Maputo", "Beira"}, Baseline: 3},
		{Name: "Zimbabwe", Region: RegionSouth, Terms: []string{"Zimbabwe", "Zimbabwean", "Zimbabwéen", "Harare", "Bulawayo"}, Baseline: 3},
		{Name: "Namibia", Region: RegionSouth, Terms: []string{"Namibia", "Namibie", "Namibian", "Namibien", "Windhoek"}, Baseline: 1},
		{Name: "Botswana", Region: RegionSouth, Terms: []string{"Botswana", "Motswana", "Batswana", "Gaborone"}, Baseline: 1},
		{
			Name:   "South Africa",
			Region: RegionSouth,
			Terms: []string{
				"South Africa", "Afrique du Sud", "South African", "Sud-Africain",
				"Johannesburg", "Cape Town", "Pretoria", "Durban",
			},
			Baseline: 5,
		},
		{Name: "Eswatini", Region: RegionSouth, Terms: []string{"Eswatini", "Swaziland", "Swazi", "Mbabane"}, Baseline: 0.5},
		{Name: "Lesotho", Region: RegionSouth, Terms: []string{"Lesotho", "Basotho", "Mosotho", "Maseru"}, Baseline: 0.5},
	}
}
