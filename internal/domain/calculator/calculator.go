// Package calculator holds the brewing formulas used on brew day.
package calculator

import (
	"errors"
	"math"
)

// ErrInvalidReading is returned for gravities, volumes or temperatures that
// cannot describe a real must.
var ErrInvalidReading = errors.New("invalid brewing reading")

const (
	abvFactor         = 131.25
	honeyPPG          = 35.0 // gravity points per pound per US gallon
	litersPerGallon   = 3.785411784
	kilogramsPerPound = 0.45359237
)

// ABV estimates alcohol by volume from original and final gravity.
func ABV(og, fg float64) (float64, error) {
	if !positive(og) || !positive(fg) || og < fg {
		return 0, ErrInvalidReading
	}
	return (og - fg) * abvFactor, nil
}

// PotentialABV is the ABV if the must ferments fully dry to 1.000.
func PotentialABV(og float64) (float64, error) {
	if og < 1 {
		return 0, ErrInvalidReading
	}
	return ABV(og, 1)
}

// TargetOG is the original gravity that ferments dry to the given ABV.
func TargetOG(abv float64) (float64, error) {
	if abv < 0 || math.IsNaN(abv) || math.IsInf(abv, 0) {
		return 0, ErrInvalidReading
	}
	return 1 + abv/abvFactor, nil
}

// BrixToSG converts degrees Brix to specific gravity.
func BrixToSG(brix float64) (float64, error) {
	if brix < 0 || math.IsNaN(brix) || brix > 80 {
		return 0, ErrInvalidReading
	}
	return 1 + brix/(258.6-(brix/258.2)*227.1), nil
}

// SGToBrix converts specific gravity to degrees Brix.
func SGToBrix(sg float64) (float64, error) {
	if !positive(sg) {
		return 0, ErrInvalidReading
	}
	return ((182.4601*sg-775.6821)*sg+1262.7794)*sg - 669.5622, nil
}

// HoneyForGravity returns the kilograms of honey needed to bring a batch of
// batchLiters to targetOG.
func HoneyForGravity(targetOG, batchLiters float64) (float64, error) {
	if targetOG < 1 || !positive(batchLiters) {
		return 0, ErrInvalidReading
	}
	points := (targetOG - 1) * 1000
	gallons := batchLiters / litersPerGallon
	pounds := points * gallons / honeyPPG
	return pounds * kilogramsPerPound, nil
}

// Dilution returns the liters of water to add to volume liters at currentSG
// to bring it down to targetSG.
func Dilution(volume, currentSG, targetSG float64) (float64, error) {
	if !positive(volume) || targetSG <= 1 || currentSG < targetSG {
		return 0, ErrInvalidReading
	}
	return volume*(currentSG-1)/(targetSG-1) - volume, nil
}

// HydrometerCorrection adjusts a reading taken at tempC for a hydrometer
// calibrated at calibrationC.
func HydrometerCorrection(sg, tempC, calibrationC float64) (float64, error) {
	if !positive(sg) || tempC < 0 || tempC > 100 || calibrationC < 0 || calibrationC > 100 {
		return 0, ErrInvalidReading
	}
	return sg * (hydrometerFactor(celsiusToFahrenheit(tempC)) / hydrometerFactor(celsiusToFahrenheit(calibrationC))), nil
}

func hydrometerFactor(f float64) float64 {
	return 1.00130346 - 0.000134722124*f + 0.00000204052596*f*f - 0.00000000232820948*f*f*f
}

func celsiusToFahrenheit(c float64) float64 {
	return c*9/5 + 32
}

func positive(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}
