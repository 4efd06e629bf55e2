package card

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/willmusolf/pvpocket-sub001/internal/battle/energy"
)

// cardFile is the top-level YAML structure for card master data.
type cardFile struct {
	Cards []cardEntry `yaml:"cards"`
}

type cardEntry struct {
	ID          string         `yaml:"id"`
	Name        string         `yaml:"name"`
	CardType    string         `yaml:"card_type"`
	EnergyType  string         `yaml:"energy_type"`
	HP          int            `yaml:"hp"`
	Basic       bool           `yaml:"basic"`
	EX          bool           `yaml:"ex"`
	Weakness    string         `yaml:"weakness"`
	RetreatCost int            `yaml:"retreat_cost"`
	Attacks     []attackEntry  `yaml:"attacks"`
	Abilities   []abilityEntry `yaml:"abilities"`
}

type attackEntry struct {
	Name   string   `yaml:"name"`
	Cost   []string `yaml:"cost"`
	Damage string   `yaml:"damage"`
	Effect string   `yaml:"effect"`
}

type abilityEntry struct {
	Name   string `yaml:"name"`
	Effect string `yaml:"effect"`
}

// deckFile is the top-level YAML structure for deck lists.
type deckFile struct {
	Decks []deckEntry `yaml:"decks"`
}

type deckEntry struct {
	Name  string           `yaml:"name"`
	Cards []deckCardsEntry `yaml:"cards"`
}

type deckCardsEntry struct {
	Name  string `yaml:"name"`
	Count int    `yaml:"count"`
}

// Set holds loaded card master data indexed by name.
type Set struct {
	byName map[string]*Card
	logger *zap.Logger
}

// LoadSet reads and parses a card master-data YAML file. Attack costs
// and effect text are parsed into their structured forms here, once.
func LoadSet(path string, logger *zap.Logger) (*Set, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read card file: %w", err)
	}
	return ParseSet(data, logger)
}

// ParseSet parses card master data from YAML bytes.
func ParseSet(data []byte, logger *zap.Logger) (*Set, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	var cf cardFile
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, fmt.Errorf("parse card YAML: %w", err)
	}

	em := energy.NewManager(logger)
	set := &Set{byName: make(map[string]*Card, len(cf.Cards)), logger: logger}
	for _, entry := range cf.Cards {
		c, err := buildCard(entry, em)
		if err != nil {
			return nil, fmt.Errorf("card %q: %w", entry.Name, err)
		}
		if _, dup := set.byName[c.Name]; dup {
			return nil, fmt.Errorf("duplicate card name %q", c.Name)
		}
		set.byName[c.Name] = c
	}
	logger.Info("card set loaded", zap.Int("cards", len(set.byName)))
	return set, nil
}

func buildCard(entry cardEntry, em *energy.Manager) (*Card, error) {
	if strings.TrimSpace(entry.Name) == "" {
		return nil, fmt.Errorf("missing name")
	}

	ct := TypePokemon
	if strings.EqualFold(entry.CardType, "trainer") {
		ct = TypeTrainer
	}

	c := &Card{
		ID:          entry.ID,
		Name:        entry.Name,
		CardType:    ct,
		HP:          entry.HP,
		RetreatCost: entry.RetreatCost,
		Basic:       entry.Basic,
		EX:          entry.EX,
	}

	if ct == TypePokemon {
		// Data files may use cost symbols ("R") or full names ("fire"),
		// the same vocabulary attack costs accept.
		t, ok := energy.ParseType(entry.EnergyType)
		if !ok {
			return nil, fmt.Errorf("invalid energy type %q", entry.EnergyType)
		}
		c.EnergyType = t
		if entry.HP <= 0 {
			return nil, fmt.Errorf("pokemon must have positive hp, got %d", entry.HP)
		}
	}

	if entry.Weakness != "" {
		w, ok := energy.ParseType(entry.Weakness)
		if !ok {
			return nil, fmt.Errorf("invalid weakness %q", entry.Weakness)
		}
		c.Weakness = w
	}

	for _, ae := range entry.Attacks {
		c.Attacks = append(c.Attacks, Attack{
			Name:       ae.Name,
			Cost:       em.ParseCost(ae.Cost),
			Damage:     ParseDamage(ae.Damage),
			RawDamage:  ae.Damage,
			EffectText: ae.Effect,
			Effects:    ParseEffects(ae.Effect),
		})
	}

	for _, ab := range entry.Abilities {
		c.Abilities = append(c.Abilities, Ability{
			Name:       ab.Name,
			EffectText: ab.Effect,
			Effects:    ParseEffects(ab.Effect),
		})
	}

	return c, nil
}

// Lookup returns the card with the given name.
func (s *Set) Lookup(name string) (*Card, bool) {
	c, ok := s.byName[name]
	return c, ok
}

// Size returns the number of cards in the set.
func (s *Set) Size() int {
	return len(s.byName)
}

// LoadDecks reads a deck-list YAML file and expands each deck against
// the set. Unknown card names are an error: a deck must be fully
// resolvable before a battle can use it.
func (s *Set) LoadDecks(path string) (map[string][]*Card, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read deck file: %w", err)
	}
	return s.ParseDecks(data)
}

// ParseDecks parses deck lists from YAML bytes.
func (s *Set) ParseDecks(data []byte) (map[string][]*Card, error) {
	var df deckFile
	if err := yaml.Unmarshal(data, &df); err != nil {
		return nil, fmt.Errorf("parse deck YAML: %w", err)
	}

	decks := make(map[string][]*Card, len(df.Decks))
	for _, entry := range df.Decks {
		var cards []*Card
		for _, dc := range entry.Cards {
			c, ok := s.Lookup(dc.Name)
			if !ok {
				return nil, fmt.Errorf("deck %q: unknown card %q", entry.Name, dc.Name)
			}
			for i := 0; i < dc.Count; i++ {
				cards = append(cards, c)
			}
		}
		decks[entry.Name] = cards
	}
	return decks, nil
}

// DeckEnergyTypes returns the distinct non-Colorless energy types of
// the Pokémon in a deck, in first-seen order. These are the candidate
// types for energy attachment during a battle.
func DeckEnergyTypes(deck []*Card) []energy.Type {
	seen := make(map[energy.Type]bool)
	var types []energy.Type
	for _, c := range deck {
		if !c.IsPokemon() || c.EnergyType == energy.Colorless {
			continue
		}
		if !seen[c.EnergyType] {
			seen[c.EnergyType] = true
			types = append(types, c.EnergyType)
		}
	}
	if len(types) == 0 {
		types = append(types, energy.Colorless)
	}
	return types
}
