package dto

import (
	"reflect"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/thereayou/noticeboard/internal/models"
)

// RegisterValidators подключает теги location/category и имена полей из json-тегов
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}

	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})

	if err := v.RegisterValidation("location", func(fl validator.FieldLevel) bool {
		return models.Location(fl.Field().String()).Valid()
	}); err != nil {
		return err
	}
	return v.RegisterValidation("category", func(fl validator.FieldLevel) bool {
		return models.ValidCategoryName(fl.Field().String())
	})
}
