package main

import (
	"encoding/json"

	"github.com/sells-group/risk-dashboard/internal/model"
)

func testDetail(id model.ClientID) *model.ClientDetail {
	return &model.ClientDetail{
		ClientID:      id,
		Age:           41,
		Gender:        "M",
		Children:      1,
		YearsEmployed: 3,
		OwnCar:        true,
		TotalIncome:   202500,
		Credit:        406597.5,
	}
}

func testPrediction(repay model.Repay, prob string) *model.Prediction {
	return &model.Prediction{
		Repay:       repay,
		Probability: map[string]json.RawMessage{prob: json.RawMessage(`"label"`)},
	}
}

func testDistribution(kind model.StatKind) *model.StatDistribution {
	return &model.StatDistribution{
		Kind:      kind,
		Repaid:    model.BucketMap{"30": 4, "45": 6, "60": 1},
		NotRepaid: model.BucketMap{"25": 3, "35": 2},
	}
}
