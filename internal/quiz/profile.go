package quiz

import "fmt"

// Profile is the narrative result of a finished quiz.
type Profile struct {
	Title     string
	Narrative string
}

type bucket struct {
	minScore  int
	title     string
	narrative string
}

// buckets are ordered by descending threshold; the first one whose
// minScore is <= total wins.
var buckets = []bucket{
	{
		minScore: 35,
		title:    "👑 Vizionar i Strateški Optimista",
		narrative: "Vaš profil ukazuje na izuzetnu sposobnost da interpretirate složene scene sa fokusom na potencijal i budućnost. " +
			"Ne vidite probleme, već prilike. Imate snažnu unutrašnju motivaciju i sklonost ka akciji. " +
			"Možda previše naginjete idealizaciji, ali Vas to čini neodoljivim vođom.",
	},
	{
		minScore: 25,
		title:    "🧭 Balansirani Istraživač i Posmatrač",
		narrative: "Postigli ste izbalansiran skor, što ukazuje na Vašu sposobnost da situaciju sagledate iz više uglova. " +
			"Emocionalna inteligencija Vam omogućava da razumete nijanse, dok pragmatičnost osigurava da ostanete čvrsto na zemlji. " +
			"Uglavnom Vas odlikuje mirna snaga i sposobnost da budete dobar oslonac.",
	},
	{
		minScore: 15,
		title:    "🧐 Oprezni Analitičar i Realista",
		narrative: "Vaša tumačenja su usmerena na realnost i detalje, ponekad na štetu šire slike. " +
			"Imate tendenciju da stvari vidite onakvima kakve jesu, sa dozom skepticizma. " +
			"Iako ste pouzdani i temeljni, ponekad Vam nedostaje spontanosti u donošenju odluka.",
	},
	{
		minScore: 0,
		title:    "💡 Introvertni Posmatrač i Kontemplativac",
		narrative: "Niski skorovi često ukazuju na osobu koja je duboko promišljena, ali koja više vremena provodi u posmatranju nego u interakciji. " +
			"Možda Vas opterećuju detalji, a emotivna stanja su Vam intenzivna. " +
			"Potrebno Vam je više vremena da se otvorite, ali kada to učinite, Vaš unutrašnji svet je izuzetno bogat.",
	},
}

// GenerateProfile maps a total score onto its narrative bucket. Total
// function: any integer, including one below MinScore, lands in the last
// bucket.
func GenerateProfile(total int) Profile {
	for _, b := range buckets {
		if total >= b.minScore {
			return Profile{Title: b.title, Narrative: b.narrative}
		}
	}
	// Negative totals cannot come out of the scoring table, but the
	// contract is total over all integers.
	last := buckets[len(buckets)-1]
	return Profile{Title: last.title, Narrative: last.narrative}
}

// FormatProfile renders the profile as the plain text sent to the
// participant. Transport-specific escaping is the sender's concern.
func FormatProfile(p Profile, total int) string {
	return fmt.Sprintf("✨ %s ✨\n\n%s\n\nUkupan skor: %d od %d moćnih bodova.", p.Title, p.Narrative, total, MaxScore)
}
