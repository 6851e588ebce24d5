package bizerror

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"plmgate/client/plm"
	"plmgate/common"
	"plmgate/i18n"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
)

func ErrorHandling() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer handle(c)
		c.Next()
	}
}

func handle(c *gin.Context) {
	if ret := recover(); ret != nil {
		err, ok := ret.(error)
		if !ok {
			err = errors.New(fmt.Sprintf("%s", ret))
		}
		HandleError(c, err)
	} else {
		if err := c.Errors.Last(); err != nil {
			HandleError(c, err)
		}
	}
}

func HandleError(c *gin.Context, err error) {
	logrus.Error(err)

	genericErr := err
	var ginErr *gin.Error
	if errors.As(err, &ginErr) {
		genericErr = ginErr.Err
	}

	if bizErr, ok := genericErr.(BizError); ok {
		respond := bizErr.Respond()
		c.JSON(respond.Status, &common.ErrorBody{Code: respond.Code, Message: respond.Message, Data: respond.Data})
		c.Abort()
		return
	}

	// bad request: io.EOF (no body)
	if errors.Is(genericErr, io.EOF) {
		c.JSON(http.StatusBadRequest, &common.ErrorBody{Code: "bad_request.body_not_found", Message: "body not found"})
		c.Abort()
		return
	}
	// bad request: json syntax error
	if syntaxErr, ok := genericErr.(*json.SyntaxError); ok {
		c.JSON(http.StatusBadRequest, &common.ErrorBody{Code: "bad_request.invalid_body_format", Message: "invalid body format", Data: syntaxErr.Error()})
		c.Abort()
		return
	}
	// validation failed
	if validationErr, ok := genericErr.(validator.ValidationErrors); ok {
		c.JSON(http.StatusBadRequest, &common.ErrorBody{Code: "bad_request.validation_failed", Message: "validation failed", Data: validationErr.Error()})
		c.Abort()
		return
	}

	if errors.Is(genericErr, ErrUnauthenticated) {
		c.JSON(http.StatusUnauthorized, &common.ErrorBody{Code: i18n.CommonUnauthenticated, Message: "unauthenticated"})
		c.Abort()
		return
	}
	if errors.Is(genericErr, ErrForbidden) {
		c.JSON(http.StatusForbidden, &common.ErrorBody{Code: i18n.CommonForbidden, Message: "access forbidden"})
		c.Abort()
		return
	}
	if errors.Is(genericErr, ErrNotFound) {
		c.JSON(http.StatusNotFound, &common.ErrorBody{Code: i18n.CommonRecordNotFound, Message: "record not found"})
		c.Abort()
		return
	}

	// adapter error taxonomy
	var transportErr *plm.TransportError
	if errors.As(genericErr, &transportErr) {
		c.JSON(http.StatusBadGateway, &common.ErrorBody{Code: i18n.GatewayBadUpstream, Message: transportErr.Error()})
		c.Abort()
		return
	}
	var remoteErr *plm.RemoteOperationError
	if errors.As(genericErr, &remoteErr) {
		c.JSON(http.StatusConflict, &common.ErrorBody{Code: i18n.GatewayRemoteRejected, Message: remoteErr.Message, Data: remoteErr.Code})
		c.Abort()
		return
	}
	var decodeErr *plm.DecodeError
	if errors.As(genericErr, &decodeErr) {
		c.JSON(http.StatusBadGateway, &common.ErrorBody{Code: i18n.GatewayProtocolDrift, Message: decodeErr.Error()})
		c.Abort()
		return
	}

	c.JSON(http.StatusInternalServerError, &common.ErrorBody{Code: i18n.CommonInternalServerError, Message: err.Error()})
	c.Abort()
}
