package catalogue

import "github.com/pbaille/biomixer/internal/domain"

// Defaults returns the starter catalogue seeded when nothing is stored
func Defaults() []domain.MechanismEntry {
	return []domain.MechanismEntry{
		{
			ID: "venom-synthesis", Name: "Venom Synthesis", Icon: "🐍", Category: domain.Defense,
			Mech: "Peptide toxin cascade", Source: "Cone snail (Conus)",
			What:        "Produces cocktails of hundreds of neuroactive peptides.",
			How:         "Venom duct cells express hypervariable conotoxin genes; a harpoon tooth delivers the mix.",
			Constraints: "Each peptide is metabolically expensive; venom regeneration takes days.",
			Combo:       "Any delivery or lure system multiplies its reach.",
			Hooks:       "The same toxins that kill are mined for painkillers.",
			Tags:        []string{"toxin", "predation", "neurochemistry"},
			Stats:       map[string]int{"resilience": 30, "offense": 95, "regen": 35, "complexity": 80, "social": 10},
		},
		{
			ID: "bioluminescence", Name: "Bioluminescence", Icon: "✨", Category: domain.Sensing,
			Mech: "Luciferin oxidation", Source: "Firefly squid (Watasenia)",
			What:        "Emits cold light on demand.",
			How:         "Luciferase oxidises luciferin in photophores; counter-illumination hides the silhouette.",
			Constraints: "Light betrays position to anything with eyes.",
			Combo:       "Turns any signalling or predation system into a visible language.",
			Hooks:       "A species whose speech is light.",
			Tags:        []string{"light", "signalling", "deep-sea"},
			Stats:       map[string]int{"resilience": 40, "offense": 30, "regen": 60, "complexity": 55, "social": 75},
		},
		{
			ID: "cryptobiosis", Name: "Cryptobiosis", Icon: "🐻", Category: domain.Metabolism,
			Mech: "Tun state desiccation", Source: "Tardigrade",
			What:        "Suspends metabolism almost completely for decades.",
			How:         "Intrinsically disordered proteins vitrify the cytoplasm as water leaves.",
			Constraints: "Entry and exit are slow; the organism is helpless while dormant.",
			Combo:       "Lets fragile systems survive environments they could never tolerate awake.",
			Hooks:       "Who keeps watch while everyone sleeps?",
			Tags:        []string{"dormancy", "extremophile", "survival"},
			Stats:       map[string]int{"resilience": 98, "offense": 5, "regen": 40, "complexity": 60, "social": 15},
		},
		{
			ID: "nacre", Name: "Nacre Armour", Icon: "🐚", Category: domain.Structure,
			Mech: "Brick-and-mortar biomineral", Source: "Abalone (Haliotis)",
			What:        "Builds a shell thousands of times tougher than its mineral.",
			How:         "Aragonite tablets are laid between chitin and protein sheets that deflect cracks.",
			Constraints: "Growth is slow and needs dissolved calcium.",
			Combo:       "Protects any soft, energy-hungry organ system.",
			Hooks:       "Armour that records every year of a life in its layers.",
			Tags:        []string{"armour", "biomineral"},
			Stats:       map[string]int{"resilience": 85, "offense": 10, "regen": 30, "complexity": 50, "social": 20},
		},
		{
			ID: "parthenogenesis", Name: "Parthenogenesis", Icon: "🦎", Category: domain.Reproduction,
			Mech: "Unfertilised egg development", Source: "Whiptail lizard (Aspidoscelis)",
			What:        "Females reproduce without males.",
			How:         "Premeiotic genome doubling keeps heterozygosity in clonal offspring.",
			Constraints: "Little genetic variation; one pathogen can sweep the population.",
			Combo:       "Lets a single colonist found a population.",
			Hooks:       "A society of sisters with no fathers.",
			Tags:        []string{"clonal", "reproduction"},
			Stats:       map[string]int{"resilience": 45, "offense": 15, "regen": 70, "complexity": 40, "social": 55},
		},
		{
			ID: "mycorrhiza", Name: "Mycorrhizal Network", Icon: "🍄", Category: domain.Symbiosis,
			Mech: "Root-fungus nutrient exchange", Source: "Arbuscular mycorrhizal fungi",
			What:        "Links plants into a shared nutrient and signalling web.",
			How:         "Hyphae penetrate root cells and trade phosphate for sugar.",
			Constraints: "Partners can cheat; the network must police its exchange rates.",
			Combo:       "Gives any sessile organism a distributed body.",
			Hooks:       "A forest that negotiates.",
			Tags:        []string{"network", "mutualism", "signalling"},
			Stats:       map[string]int{"resilience": 70, "offense": 5, "regen": 75, "complexity": 85, "social": 95},
		},
		{
			ID: "zombie-fungus", Name: "Behavioural Hijack", Icon: "🐜", Category: domain.Parasitism,
			Mech: "Host manipulation", Source: "Ophiocordyceps unilateralis",
			What:        "Steers an infected ant to a precise spot before killing it.",
			How:         "Fungal cells surround muscle fibres and secrete compounds that override the host's behaviour.",
			Constraints: "Needs a narrow host species and microclimate.",
			Combo:       "Any dispersal strategy improves when hosts walk the parasite where it needs to go.",
			Hooks:       "Where does the host end and the passenger begin?",
			Tags:        []string{"parasite", "manipulation", "fungus"},
			Stats:       map[string]int{"resilience": 50, "offense": 80, "regen": 45, "complexity": 90, "social": 5},
		},
		{
			ID: "swarm-thermoregulation", Name: "Swarm Thermoregulation", Icon: "🐝", Category: domain.Collective,
			Mech: "Collective heat balling", Source: "Japanese honeybee (Apis cerana japonica)",
			What:        "Cooks invading hornets inside a ball of vibrating bees.",
			How:         "Hundreds of workers shiver flight muscles to raise the core to 46°C.",
			Constraints: "Bees at the core shorten their own lives.",
			Combo:       "Any individual weakness becomes a group strength.",
			Hooks:       "Sacrifice as a physiological reflex.",
			Tags:        []string{"swarm", "heat", "defense"},
			Stats:       map[string]int{"resilience": 55, "offense": 70, "regen": 50, "complexity": 65, "social": 98},
		},
		{
			ID: "magnetoreception", Name: "Quantum Compass", Icon: "🐦", Category: domain.Quantum,
			Mech: "Radical pair magnetoreception", Source: "European robin (Erithacus rubecula)",
			What:        "Senses the inclination of Earth's magnetic field.",
			How:         "Light-activated cryptochrome forms radical pairs whose spin state depends on field angle.",
			Constraints: "Fragile to radio-frequency noise; only works in light.",
			Combo:       "Adds a navigation sense to any migratory body plan.",
			Hooks:       "A creature that sees the planet's field lines.",
			Tags:        []string{"navigation", "quantum", "migration"},
			Stats:       map[string]int{"resilience": 35, "offense": 5, "regen": 50, "complexity": 95, "social": 40},
		},
	}
}
