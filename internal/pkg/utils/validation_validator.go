package utils

import (
	"nursecare-service/internal/pkg/constvars"
	"time"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterValidation("appointment_type", validateAppointmentType)
	validate.RegisterValidation("civil_date", validateCivilDate)
	validate.RegisterValidation("civil_time", validateCivilTime)
	validate.RegisterValidation("mongo_id", validateMongoID)
}

func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}

func validateAppointmentType(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	return value == constvars.AppointmentTypeFastService || value == constvars.AppointmentTypeFullTimeCare
}

func validateCivilDate(fl validator.FieldLevel) bool {
	_, err := time.Parse(constvars.CivilDateLayout, fl.Field().String())
	return err == nil
}

func validateCivilTime(fl validator.FieldLevel) bool {
	_, err := time.Parse(constvars.CivilTimeLayout, fl.Field().String())
	return err == nil
}

func validateMongoID(fl validator.FieldLevel) bool {
	return primitive.IsValidObjectID(fl.Field().String())
}
