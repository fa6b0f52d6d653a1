package payment

import "edulearn-server/internal/models"

// The plan catalog ships with the server; there is no plan admin UI.
var plans = []models.Plan{
	{
		ID:     "basic_monthly",
		Name:   "Monthly Plan",
		Price:  19.99,
		Period: "month",
		Days:   30,
		Features: []string{
			"Access to all subjects",
			"Unlimited video lectures",
			"Practice quizzes",
			"Final exams",
			"Progress tracking",
		},
	},
	{
		ID:     "premium_quarterly",
		Name:   "Quarterly Plan",
		Price:  49.99,
		Period: "3 months",
		Days:   90,
		Features: []string{
			"Everything in Monthly Plan",
			"Priority support",
			"Downloadable resources",
			"Certificate of completion",
		},
	},
	{
		ID:     "ultimate_yearly",
		Name:   "Yearly Plan",
		Price:  179.99,
		Period: "year",
		Days:   365,
		Features: []string{
			"Everything in Quarterly Plan",
			"One-on-one doubt sessions",
			"Advanced content access",
			"Career guidance",
		},
	},
}

func Plans() []models.Plan {
	out := make([]models.Plan, len(plans))
	copy(out, plans)
	return out
}

func PlanByID(id string) (models.Plan, bool) {
	for _, p := range plans {
		if p.ID == id {
			return p, true
		}
	}
	return models.Plan{}, false
}
