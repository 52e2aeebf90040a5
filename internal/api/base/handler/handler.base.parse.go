package basehdl

import (
	"bytes"
	"encoding/json"

	"field_crm/internal/common"
	"field_crm/internal/global"

	"github.com/gofiber/fiber/v3"
)

// ParseRequestBody parse và validate dữ liệu từ request body.
//
// Parameters:
// - c: Fiber context
// - input: Con trỏ tới struct sẽ chứa dữ liệu được parse
//
// Returns:
// - error: Lỗi nếu có trong quá trình parse hoặc validate
func ParseRequestBody(c fiber.Ctx, input interface{}) error {
	body := c.Body()
	reader := bytes.NewReader(body)
	decoder := json.NewDecoder(reader)
	decoder.UseNumber()
	if err := decoder.Decode(input); err != nil {
		return common.NewError(common.ErrCodeValidationFormat, common.MsgValidationError, common.StatusBadRequest, err)
	}

	return ValidateInput(input)
}

// ValidateInput thực hiện validate chi tiết dữ liệu đầu vào với validator từ global
func ValidateInput(input interface{}) error {
	if err := global.Validate.Struct(input); err != nil {
		return common.NewError(common.ErrCodeValidationInput, common.MsgValidationError, common.StatusBadRequest, err)
	}
	return nil
}
