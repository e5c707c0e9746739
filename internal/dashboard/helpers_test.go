package dashboard

import (
	"encoding/json"

	"github.com/sells-group/risk-dashboard/internal/model"
)

func prediction(repay model.Repay, prob string) *model.Prediction {
	return &model.Prediction{
		Repay:       repay,
		Probability: map[string]json.RawMessage{prob: json.RawMessage(`"` + string(repay) + `"`)},
	}
}

func detail(id model.ClientID) *model.ClientDetail {
	return &model.ClientDetail{
		ClientID:      id,
		Age:           41,
		Gender:        "F",
		YearsEmployed: 7,
		TotalIncome:   135000,
		Credit:        450000,
	}
}

func distribution(kind model.StatKind) *model.StatDistribution {
	return &model.StatDistribution{
		Kind:      kind,
		Repaid:    model.BucketMap{"20": 3, "40": 5, "60": 2},
		NotRepaid: model.BucketMap{"25": 4, "35": 1},
	}
}

func referenceTable() *model.ReferenceTable {
	return &model.ReferenceTable{Rows: []model.ReferenceClient{
		{TotalIncome: 90000, Target: 0},
		{TotalIncome: 150000, Target: 0},
		{TotalIncome: 120000, Target: 1},
	}}
}
