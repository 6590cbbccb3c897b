package i18n

// Terms is the business-specific wording used on calls to action and section headings.
type Terms struct {
	CTA          string `json:"cta"`
	Trial        string `json:"trial"`
	Features     string `json:"features"`
	Pricing      string `json:"pricing"`
	Testimonials string `json:"testimonials"`
}

var businessTerms = map[string]map[Locale]Terms{
	"app-marketing": {
		English:    {CTA: "Download Now", Trial: "Start Free Trial", Features: "Features", Pricing: "Pricing", Testimonials: "User Reviews"},
		German:     {CTA: "Jetzt herunterladen", Trial: "Kostenlos testen", Features: "Funktionen", Pricing: "Preise", Testimonials: "Nutzerbewertungen"},
		French:     {CTA: "Télécharger maintenant", Trial: "Essai gratuit", Features: "Fonctionnalités", Pricing: "Tarifs", Testimonials: "Avis utilisateurs"},
		Spanish:    {CTA: "Descargar ahora", Trial: "Prueba gratuita", Features: "Características", Pricing: "Precios", Testimonials: "Reseñas de usuarios"},
		Italian:    {CTA: "Scarica ora", Trial: "Prova gratuita", Features: "Funzionalità", Pricing: "Prezzi", Testimonials: "Recensioni utenti"},
		Portuguese: {CTA: "Baixar agora", Trial: "Teste grátis", Features: "Recursos", Pricing: "Preços", Testimonials: "Avaliações de usuários"},
	},
	"consulting": {
		English:    {CTA: "Schedule Consultation", Trial: "Book Discovery Call", Features: "Services", Pricing: "Engagement Models", Testimonials: "Client Success Stories"},
		German:     {CTA: "Beratung vereinbaren", Trial: "Erstgespräch buchen", Features: "Leistungen", Pricing: "Zusammenarbeitsmodelle", Testimonials: "Kundenerfolge"},
		French:     {CTA: "Planifier une consultation", Trial: "Réserver un appel découverte", Features: "Services", Pricing: "Modèles d'engagement", Testimonials: "Témoignages clients"},
		Spanish:    {CTA: "Programar consulta", Trial: "Reservar llamada inicial", Features: "Servicios", Pricing: "Modelos de colaboración", Testimonials: "Casos de éxito"},
		Italian:    {CTA: "Prenota consulenza", Trial: "Prenota chiamata conoscitiva", Features: "Servizi", Pricing: "Modelli di collaborazione", Testimonials: "Storie di successo"},
		Portuguese: {CTA: "Agendar consulta", Trial: "Agendar chamada inicial", Features: "Serviços", Pricing: "Modelos de engajamento", Testimonials: "Casos de sucesso"},
	},
}

// BusinessTerms returns the terminology for a business type in locale.
// Unknown locales use the default locale; an unknown business type yields ok == false.
func BusinessTerms(businessType string, l Locale) (Terms, bool) {
	byLocale, ok := businessTerms[businessType]
	if !ok {
		return Terms{}, false
	}
	if terms, ok := byLocale[l]; ok {
		return terms, true
	}
	return byLocale[DefaultLocale], true
}
