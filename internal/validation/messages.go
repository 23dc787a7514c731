package validation

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// fieldLabels names each field the way messages refer to it.
var fieldLabels = map[string]string{
	"title":       "El título",
	"description": "La descripción",
	"priority":    "La prioridad",
	"area":        "El área",
	"status":      "El estado",
	"name":        "El nombre",
	"email":       "El correo electrónico",
}

func fieldMessage(fe validator.FieldError) string {
	label, ok := fieldLabels[fe.Field()]
	if !ok {
		label = "El campo " + fe.Field()
	}

	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s es un campo obligatorio", label)
	case "min":
		return fmt.Sprintf("%s debe tener al menos %s caracteres", label, fe.Param())
	case "max":
		return fmt.Sprintf("%s no puede tener más de %s caracteres", label, fe.Param())
	case "email":
		return fmt.Sprintf("%s no es válido", label)
	case "incident_priority":
		return fmt.Sprintf("%s debe ser HIGH, MEDIUM o LOW", label)
	case "incident_status":
		return fmt.Sprintf("%s debe ser OPEN, IN_PROGRESS o CLOSED", label)
	default:
		return fmt.Sprintf("%s no es válido", label)
	}
}
