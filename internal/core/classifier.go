package core

import (
	"strings"

	"sakanacore/pkg/domain"
)

// domainKeywords are matched as lower-case substrings, not whole words.
var domainKeywords = map[Domain][]string{
	DomainChemicalComposition: {
		"chemical", "composition", "molecular", "ph", "concentration",
		"sulfuric", "acid", "chemistry", "reaction", "catalytic",
	},
	DomainParticleDynamics: {
		"particle", "size", "aerosol", "coagulation", "sedimentation",
		"radius", "microphysics", "nucleation", "distribution",
	},
	DomainSignalDetection: {
		"signal", "detection", "spectroscopy", "noise", "snr",
		"detectability", "sensor", "spectral", "instrument",
	},
	DomainClimateResponse: {
		"climate", "temperature", "forcing", "radiative", "cooling",
		"warming", "precipitation", "sensitivity", "response",
	},
	DomainAtmosphericTransport: {
		"transport", "circulation", "wind", "dispersion", "stratospheric",
		"advection", "mixing", "lifetime", "altitude",
	},
	DomainPolicyGovernance: {
		"policy", "governance", "regulation", "ethics", "stakeholder",
		"international", "treaty", "legal", "decision",
	},
}

// Classifier assigns a domain to a record by keyword scoring.
type Classifier struct {
	order    []Domain
	keywords map[Domain][]string
}

// NewClassifier returns a classifier using the built-in keyword sets.
func NewClassifier() *Classifier {
	keywords := make(map[Domain][]string, len(domainKeywords))
	for d, words := range domainKeywords {
		keywords[d] = append([]string(nil), words...)
	}
	return &Classifier{order: domain.Domains(), keywords: keywords}
}

// Classify returns the declared domain when it is recognised, DomainUnknown when
// a declared domain is not recognised, and otherwise the best keyword match.
func (c *Classifier) Classify(record ExperimentRecord) Domain {
	if strings.TrimSpace(record.DeclaredDomain) != "" {
		d, _ := domain.ParseDomain(record.DeclaredDomain)
		return d
	}
	return c.ClassifyText(record.CanonicalText())
}

// ClassifyText returns the domain with the highest keyword score. Ties go to the
// domain declared first; an all-zero score yields DomainUnknown.
func (c *Classifier) ClassifyText(text string) Domain {
	scores := c.Scores(text)
	best, bestScore := DomainUnknown, 0
	for _, d := range c.order {
		if scores[d] > bestScore {
			best, bestScore = d, scores[d]
		}
	}
	return best
}

// Scores counts the keywords of each domain present in text.
func (c *Classifier) Scores(text string) map[Domain]int {
	lower := strings.ToLower(text)
	scores := make(map[Domain]int, len(c.order))
	for _, d := range c.order {
		for _, kw := range c.keywords[d] {
			if strings.Contains(lower, kw) {
				scores[d]++
			}
		}
	}
	return scores
}

// Keywords returns a copy of the keyword set for d.
func (c *Classifier) Keywords(d Domain) []string {
	return append([]string(nil), c.keywords[d]...)
}
