package synthdata

// Name and institution pools used to render realistic applicant
// identities on generated documents.
var (
	firstNames = []string{
		"Ahmed", "Fatima", "Mohammed", "Khadija", "Youssef", "Amina", "Hassan", "Salma",
		"Omar", "Nadia", "Karim", "Zineb", "Rachid", "Leila", "Said", "Samira",
	}

	lastNames = []string{
		"Alaoui", "Benani", "Chraibi", "Idrissi", "El Fassi", "Tazi", "Benjelloun",
		"Kettani", "Berrada", "Lahlou", "Mansouri", "Filali", "Skalli", "Ouazzani",
	}

	companies = []string{
		"BMCE Bank", "Attijariwafa Bank", "Maroc Telecom", "OCP Group", "ONCF",
		"RAM", "Centrale Danone", "Lydec", "Managem", "COSUMAR",
	}

	cities = []string{
		"Casablanca", "Rabat", "Marrakech", "Fes", "Tangier", "Agadir", "Meknes", "Oujda",
	}

	cinPrefixes = []string{
		"A", "B", "D", "F", "G", "J", "K", "L", "M", "N", "P", "R", "S", "T", "W", "X", "Y", "Z",
	}
)
