package handler

import (
	"bytes"
	"context"
	"mime/multipart"
	"testing"

	"github.com/cloudwego/hertz/pkg/app"
	hertzconfig "github.com/cloudwego/hertz/pkg/common/config"
	"github.com/cloudwego/hertz/pkg/common/ut"
	"github.com/cloudwego/hertz/pkg/route"
	"github.com/stretchr/testify/assert"

	"PostPilot/internal/middleware"
)

func newUploadCVEngine() *route.Engine {
	engine := route.NewEngine(hertzconfig.NewOptions([]hertzconfig.Option{}))
	engine.POST("/v1/onboarding/cv", func(ctx context.Context, c *app.RequestContext) {
		c.Set(middleware.IdentityKey, "1")
	}, UploadCV)
	return engine
}

// 没带文件且没显式声明跳过时必须报错，表单解析失败不能被当成跳过
func TestUploadCVRejectsMissingFile(t *testing.T) {
	engine := newUploadCVEngine()

	t.Run("multipart without file field", func(t *testing.T) {
		var buf bytes.Buffer
		w := multipart.NewWriter(&buf)
		assert.NoError(t, w.WriteField("note", "no file attached"))
		assert.NoError(t, w.Close())

		resp := ut.PerformRequest(engine, "POST", "/v1/onboarding/cv",
			&ut.Body{Body: &buf, Len: buf.Len()},
			ut.Header{Key: "Content-Type", Value: w.FormDataContentType()},
		)

		assert.Equal(t, 400, resp.Result().StatusCode())
		assert.Contains(t, string(resp.Result().Body()), "CV_FILE_MISSING")
	})

	t.Run("malformed multipart body", func(t *testing.T) {
		body := "this is not a multipart payload"
		resp := ut.PerformRequest(engine, "POST", "/v1/onboarding/cv",
			&ut.Body{Body: bytes.NewBufferString(body), Len: len(body)},
			ut.Header{Key: "Content-Type", Value: "multipart/form-data; boundary=broken"},
		)

		assert.Equal(t, 400, resp.Result().StatusCode())
		assert.Contains(t, string(resp.Result().Body()), "CV_FILE_MISSING")
	})

	t.Run("empty body", func(t *testing.T) {
		resp := ut.PerformRequest(engine, "POST", "/v1/onboarding/cv",
			&ut.Body{Body: bytes.NewBuffer(nil), Len: 0},
		)

		assert.Equal(t, 400, resp.Result().StatusCode())
		assert.Contains(t, string(resp.Result().Body()), "CV_FILE_MISSING")
	})
}
