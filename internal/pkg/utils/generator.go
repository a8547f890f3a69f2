package utils

import (
	"crypto/rand"
	"math/big"
	"nursecare-service/internal/pkg/constvars"

	"github.com/google/uuid"
)

func GenerateRequestID() string {
	return constvars.REQUEST_ID_PREFIX + uuid.NewString()
}

// GenerateAppointmentCode draws a display code uniformly from
// [AppointmentCodeMin, AppointmentCodeMax]. Codes are not unique.
func GenerateAppointmentCode() (int, error) {
	span := big.NewInt(constvars.AppointmentCodeMax - constvars.AppointmentCodeMin + 1)
	n, err := rand.Int(rand.Reader, span)
	if err != nil {
		return 0, err
	}
	return constvars.AppointmentCodeMin + int(n.Int64()), nil
}
