package handlers

import (
	"errors"
	"net/http"
	"sort"

	"github.com/go-chi/chi/v5"
	"github.com/meadcraft/meadery/internal/domain/calculator"
	apperrors "github.com/meadcraft/meadery/pkg/errors"
	"go.uber.org/zap"
)

// CalculatorRequest carries every calculator input; each calculator reads
// only the fields it needs.
type CalculatorRequest struct {
	OG           float64 `json:"og"`
	FG           float64 `json:"fg"`
	SG           float64 `json:"sg"`
	Brix         float64 `json:"brix"`
	ABV          float64 `json:"abv"`
	BatchLiters  float64 `json:"batch_liters"`
	Volume       float64 `json:"volume"`
	CurrentSG    float64 `json:"current_sg"`
	TargetSG     float64 `json:"target_sg"`
	TempC        float64 `json:"temp_c"`
	CalibrationC float64 `json:"calibration_c"`
}

// CalculatorResult is the response body of a calculation
type CalculatorResult struct {
	Calculator string  `json:"calculator"`
	Result     float64 `json:"result"`
	Unit       string  `json:"unit,omitempty"`
}

type calculatorFunc func(CalculatorRequest) (float64, error)

type calculatorEntry struct {
	unit string
	fn   calculatorFunc
}

var calculators = map[string]calculatorEntry{
	"abv": {"%", func(in CalculatorRequest) (float64, error) {
		return calculator.ABV(in.OG, in.FG)
	}},
	"potential-abv": {"%", func(in CalculatorRequest) (float64, error) {
		return calculator.PotentialABV(in.OG)
	}},
	"target-og": {"sg", func(in CalculatorRequest) (float64, error) {
		return calculator.TargetOG(in.ABV)
	}},
	"brix-to-sg": {"sg", func(in CalculatorRequest) (float64, error) {
		return calculator.BrixToSG(in.Brix)
	}},
	"sg-to-brix": {"brix", func(in CalculatorRequest) (float64, error) {
		return calculator.SGToBrix(in.SG)
	}},
	"honey": {"kg", func(in CalculatorRequest) (float64, error) {
		return calculator.HoneyForGravity(in.OG, in.BatchLiters)
	}},
	"dilution": {"L", func(in CalculatorRequest) (float64, error) {
		return calculator.Dilution(in.Volume, in.CurrentSG, in.TargetSG)
	}},
	"hydrometer-correction": {"sg", func(in CalculatorRequest) (float64, error) {
		return calculator.HydrometerCorrection(in.SG, in.TempC, in.CalibrationC)
	}},
}

// CalculatorNames lists the available calculators in sorted order
func CalculatorNames() []string {
	names := make([]string, 0, len(calculators))
	for name := range calculators {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// CalculatorHandlers serves the brewing calculators
type CalculatorHandlers struct {
	validator Validator
	logger    *zap.Logger
}

// NewCalculatorHandlers creates the calculator handlers
func NewCalculatorHandlers(validator Validator, logger *zap.Logger) *CalculatorHandlers {
	return &CalculatorHandlers{
		validator: validator,
		logger:    logger.Named("calculator-handlers"),
	}
}

// Routes mounts the calculator endpoints
func (h *CalculatorHandlers) Routes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/{name}", h.Calculate)
}

// List handles GET /api/v1/calculators
func (h *CalculatorHandlers) List(w http.ResponseWriter, r *http.Request) {
	writeSuccess(w, h.logger, http.StatusOK, CalculatorNames(), "")
}

// Calculate handles POST /api/v1/calculators/{name}
func (h *CalculatorHandlers) Calculate(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	entry, ok := calculators[name]
	if !ok {
		writeError(w, r, h.logger, apperrors.NewUnknownCalculatorError(name))
		return
	}

	var in CalculatorRequest
	if err := decodeJSON(r, h.validator, &in); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	result, err := entry.fn(in)
	if err != nil {
		if errors.Is(err, calculator.ErrInvalidReading) {
			err = apperrors.NewValidationError(err.Error())
		}
		writeError(w, r, h.logger, err)
		return
	}

	writeSuccess(w, h.logger, http.StatusOK, CalculatorResult{
		Calculator: name,
		Result:     result,
		Unit:       entry.unit,
	}, "")
}
