package util

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

func GetUUID() string {
	return uuid.New().String()
}

func IsValidUUID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// FloatRoundOffWithPrecision Rounds of a float64 value to given precision. Ex: 2.667 with precision 2 -> 2.67.
func FloatRoundOffWithPrecision(value float64, precision int) (float64, error) {
	valueString := fmt.Sprintf("%0.*f", precision, value)
	roundOffValue, err := strconv.ParseFloat(valueString, 64)
	if err != nil {
		log.WithFields(log.Fields{"value": value,
			"precision": precision}).Error("error while rounding off float value")
		return roundOffValue, err
	}
	return roundOffValue, nil
}

// TimeNowZ returns the current UTC time formatted as RFC3339.
func TimeNowZ() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// IsMissingValue reports whether a raw cell should be treated as absent.
func IsMissingValue(value string) bool {
	v := strings.TrimSpace(value)
	return v == "" || strings.EqualFold(v, "none") || strings.EqualFold(v, "nan") ||
		strings.EqualFold(v, "null")
}
