package importer

import (
	"regexp"
	"strings"
)

type BeneficiaryKind int32

const (
	BeneficiaryGeneral BeneficiaryKind = iota + 1
	BeneficiaryProject
	BeneficiaryChild
)

// Beneficiary is the typed classification result: the general fund, a named
// project/campaign, or a sponsored child.
type Beneficiary struct {
	Kind BeneficiaryKind
	Name string
}

func GeneralBeneficiary() Beneficiary {
	return Beneficiary{Kind: BeneficiaryGeneral}
}

func ProjectBeneficiary(name string) Beneficiary {
	return Beneficiary{Kind: BeneficiaryProject, Name: name}
}

func ChildBeneficiary(name string) Beneficiary {
	return Beneficiary{Kind: BeneficiaryChild, Name: name}
}

var (
	sponsorshipPlanPattern = regexp.MustCompile(`(?i)^sponsorship\s+for\s+(.+)$`)
	campaignPattern        = regexp.MustCompile(`(?i)\b(campaign\b.*)$`)
	invoicePattern         = regexp.MustCompile(`(?i)^invoice\b`)
	emailPattern           = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	allDigitsPattern       = regexp.MustCompile(`^[\d\s()+-]+$`)
	generalPattern         = regexp.MustCompile(`(?i)\b(general|monthly)\s+donation\b`)
	subscriptionPattern    = regexp.MustCompile(`(?i)\bsubscription\s+(creation|update|renewal)\b`)
)

// Phrases the gateway's payment apps stamp on charges; they carry no
// beneficiary information.
var paymentAppPhrases = []string{
	"payment from",
	"sent from",
	"mobile payment",
	"pos transaction",
	"card payment",
}

type descriptionRule struct {
	match    func(text string) bool
	classify func(text string) Beneficiary
}

// Classifier maps a transaction to its beneficiary. Metadata is consulted
// before any text parsing; description rules run in declaration order and
// the first match wins. Classification is pure: no ledger lookups here.
type Classifier struct {
	maxProjectNameLen int
	rules             []descriptionRule
}

func NewClassifier(maxProjectNameLen int) *Classifier {
	c := &Classifier{maxProjectNameLen: maxProjectNameLen}
	c.rules = []descriptionRule{
		{
			match:    func(text string) bool { return text == "" },
			classify: func(string) Beneficiary { return GeneralBeneficiary() },
		},
		{
			match:    generalPattern.MatchString,
			classify: func(string) Beneficiary { return GeneralBeneficiary() },
		},
		{
			match: func(text string) bool { return campaignPattern.MatchString(text) },
			classify: func(text string) Beneficiary {
				name := campaignPattern.FindStringSubmatch(text)[1]
				return ProjectBeneficiary(c.truncate(strings.TrimSpace(name)))
			},
		},
		{
			match:    invoicePattern.MatchString,
			classify: func(string) Beneficiary { return GeneralBeneficiary() },
		},
		{
			match:    emailPattern.MatchString,
			classify: func(string) Beneficiary { return GeneralBeneficiary() },
		},
		{
			match:    isDigitsOnly,
			classify: func(string) Beneficiary { return GeneralBeneficiary() },
		},
		{
			match:    subscriptionPattern.MatchString,
			classify: func(string) Beneficiary { return GeneralBeneficiary() },
		},
		{
			match:    isPaymentAppBoilerplate,
			classify: func(string) Beneficiary { return GeneralBeneficiary() },
		},
	}
	return c
}

// Classify resolves the beneficiary for one transaction. Deterministic for
// identical input.
func (c *Classifier) Classify(tx *Transaction) Beneficiary {
	if name := strings.TrimSpace(tx.Metadata[MetadataKeyChildID]); name != "" {
		return ChildBeneficiary(name)
	}
	if name := strings.TrimSpace(tx.Metadata[MetadataKeyProjectID]); name != "" {
		return ProjectBeneficiary(name)
	}

	if m := sponsorshipPlanPattern.FindStringSubmatch(strings.TrimSpace(tx.PlanLabel)); m != nil {
		return ChildBeneficiary(strings.TrimSpace(m[1]))
	}

	text := strings.TrimSpace(tx.Description)
	for _, rule := range c.rules {
		if rule.match(text) {
			return rule.classify(text)
		}
	}

	// Unrecognized free text becomes a named project so a reviewer sees it.
	return ProjectBeneficiary(c.truncate(text))
}

func (c *Classifier) truncate(name string) string {
	if c.maxProjectNameLen <= 0 {
		return name
	}
	runes := []rune(name)
	if len(runes) <= c.maxProjectNameLen {
		return name
	}
	return strings.TrimSpace(string(runes[:c.maxProjectNameLen]))
}

func isDigitsOnly(text string) bool {
	if !allDigitsPattern.MatchString(text) {
		return false
	}
	return strings.ContainsAny(text, "0123456789")
}

func isPaymentAppBoilerplate(text string) bool {
	lowered := strings.ToLower(text)
	for _, phrase := range paymentAppPhrases {
		if strings.Contains(lowered, phrase) {
			return true
		}
	}
	return false
}
