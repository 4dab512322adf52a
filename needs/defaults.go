package needs

// DefaultTable returns the it-work.fr service categories.
func DefaultTable() Table {
	return Table{
		{Name: "cloud", URL: "https://it-work.fr/cloud/", Keywords: []string{"cloud", "hébergement", "serveur", "stockage", "sauvegarde", "données"}},
		{Name: "voip", URL: "https://it-work.fr/voip/", Keywords: []string{"téléphonie", "voip", "communication", "téléphone", "appel"}},
		{Name: "medical", URL: "https://it-work.fr/medical/", Keywords: []string{"médical", "santé", "cabinet", "clinique", "hôpital"}},
		{Name: "retail", URL: "https://it-work.fr/retails/", Keywords: []string{"commerce", "magasin", "retail", "boutique", "point de vente"}},
		{Name: "entreprises", URL: "https://it-work.fr/entreprises/", Keywords: []string{"entreprise", "société", "business", "pme", "pmi"}},
		{Name: "associations", URL: "https://it-work.fr/associations/", Keywords: []string{"association", "asso", "non-profit", "but non lucratif"}},
		{Name: "hotellerie", URL: "https://it-work.fr/hotellerie/", Keywords: []string{"hôtel", "restaurant", "tourisme", "hébergement"}},
		{Name: "reseaux", URL: "https://it-work.fr/reseaux/", Keywords: []string{"réseau", "infrastructure", "wifi", "internet", "câblage"}},
		{Name: "contact", URL: "https://it-work.fr/contact/", Keywords: []string{"contact", "joindre", "appeler", "rendez-vous", "devis"}},
		{Name: "offres", URL: "https://it-work.fr/nos-offres/", Keywords: []string{"offre", "service", "prix", "tarif", "pack"}},
		{Name: "about", URL: "https://it-work.fr/qui-sommes-nous/", Keywords: []string{"entreprise it-work", "à propos", "qui sommes-nous", "présentation"}},
	}
}
