package appointments

import (
	"fmt"
	"nursecare-service/internal/app/contracts"
	"nursecare-service/internal/app/models"
	"nursecare-service/internal/pkg/constvars"
	"nursecare-service/internal/pkg/dto/requests"
	"nursecare-service/internal/pkg/exceptions"
	"strconv"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func formatAmount(amount float64) string {
	return strconv.FormatFloat(amount, 'f', -1, 64)
}

// buildCheckoutMetadata stages every field needed to materialize the
// appointment once the ledger reports the payment.
func buildCheckoutMetadata(userID primitive.ObjectID, request *requests.CreateCheckoutSession, cost Cost, appointmentCode int) map[string]string {
	metadata := map[string]string{
		constvars.MetadataAppointmentType:   request.AppointmentType,
		constvars.MetadataHaveAvailableRoom: strconv.FormatBool(request.HaveAvailableRoom),
		constvars.MetadataArePeopleWithUser: strconv.FormatBool(request.AreTherePeopleWithUser),
		constvars.MetadataUserID:            userID.Hex(),
		constvars.MetadataNurseID:           request.NurseID,
		constvars.MetadataAppointmentCode:   strconv.Itoa(appointmentCode),
		constvars.MetadataDate:              request.Date,
		constvars.MetadataTime:              request.Time,
		constvars.MetadataNotes:             request.Notes,
		constvars.MetadataTotalCost:         formatAmount(cost.Total()),
		constvars.MetadataTaxPrice:          formatAmount(cost.Tax()),
	}
	switch request.AppointmentType {
	case constvars.AppointmentTypeFastService:
		metadata[constvars.MetadataServiceOption] = request.ServiceOption
	case constvars.AppointmentTypeFullTimeCare:
		metadata[constvars.MetadataFrequency] = request.Frequency
		metadata[constvars.MetadataDays] = strconv.Itoa(request.Days)
	}
	return metadata
}

type metadataReader struct {
	values map[string]string
	err    error
}

func (m *metadataReader) required(key string) string {
	value, ok := m.values[key]
	if m.err == nil && (!ok || value == "") {
		m.err = exceptions.ErrLedgerMetadata(fmt.Errorf("missing %s", key), key)
	}
	return value
}

func (m *metadataReader) objectID(key string) primitive.ObjectID {
	value := m.required(key)
	if m.err != nil {
		return primitive.NilObjectID
	}
	id, err := primitive.ObjectIDFromHex(value)
	if err != nil {
		m.err = exceptions.ErrLedgerMetadata(err, key)
	}
	return id
}

func (m *metadataReader) boolean(key string) bool {
	value, ok := m.values[key]
	if !ok || value == "" {
		return false
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil && m.err == nil {
		m.err = exceptions.ErrLedgerMetadata(err, key)
	}
	return parsed
}

func (m *metadataReader) amount(key string) float64 {
	value := m.required(key)
	if m.err != nil {
		return 0
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil || parsed < 0 {
		m.err = exceptions.ErrLedgerMetadata(fmt.Errorf("invalid amount %q", value), key)
	}
	return parsed
}

func (m *metadataReader) integer(key string) int {
	value := m.required(key)
	if m.err != nil {
		return 0
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		m.err = exceptions.ErrLedgerMetadata(err, key)
	}
	return parsed
}

// appointmentFromCheckout materializes a paid appointment from the echoed
// metadata. Cost fields are taken verbatim, never recomputed.
func appointmentFromCheckout(checkout *contracts.CompletedCheckout, clock contracts.Clock, paidAt time.Time) (*models.Appointment, error) {
	reader := &metadataReader{values: checkout.Metadata}

	appointment := &models.Appointment{
		User:                   reader.objectID(constvars.MetadataUserID),
		Nurse:                  reader.objectID(constvars.MetadataNurseID),
		AppointmentType:        reader.required(constvars.MetadataAppointmentType),
		HaveAvailableRoom:      reader.boolean(constvars.MetadataHaveAvailableRoom),
		AreTherePeopleWithUser: reader.boolean(constvars.MetadataArePeopleWithUser),
		Date:                   reader.required(constvars.MetadataDate),
		Time:                   reader.required(constvars.MetadataTime),
		Notes:                  checkout.Metadata[constvars.MetadataNotes],
		AppointmentCode:        reader.required(constvars.MetadataAppointmentCode),
		TotalCost:              reader.amount(constvars.MetadataTotalCost),
		TaxPrice:               reader.amount(constvars.MetadataTaxPrice),
	}

	switch appointment.AppointmentType {
	case constvars.AppointmentTypeFastService:
		appointment.ServiceOption = reader.required(constvars.MetadataServiceOption)
	case constvars.AppointmentTypeFullTimeCare:
		appointment.Frequency = reader.required(constvars.MetadataFrequency)
		appointment.Days = reader.integer(constvars.MetadataDays)
	}
	if reader.err != nil {
		return nil, reader.err
	}
	if appointment.TaxPrice > appointment.TotalCost {
		return nil, exceptions.ErrLedgerMetadata(fmt.Errorf("tax %v exceeds total %v", appointment.TaxPrice, appointment.TotalCost), constvars.MetadataTaxPrice)
	}

	dateTime, err := clock.CombineDateTime(appointment.Date, appointment.Time)
	if err != nil {
		return nil, exceptions.ErrLedgerMetadata(err, constvars.MetadataDate)
	}
	appointment.DateTime = dateTime

	if appointment.AppointmentType == constvars.AppointmentTypeFullTimeCare {
		end, err := clock.AddCalendarDays(appointment.Date, appointment.Days)
		if err != nil {
			return nil, exceptions.ErrLedgerMetadata(err, constvars.MetadataDays)
		}
		appointment.End = end
	}

	appointment.ID = primitive.NewObjectID()
	appointment.IsPaid = true
	appointment.PaymentIntentID = checkout.PaymentIntentID
	appointment.PaidAt = &paidAt
	appointment.Status = models.AppointmentStatusPendingAcceptance
	appointment.CreatedAt = paidAt
	appointment.UpdatedAt = paidAt
	return appointment, nil
}
