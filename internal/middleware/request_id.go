package middlewares

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	RequestIDKey    = "request_id"
	RequestIDHeader = "X-Request-ID"

	// TrafficClassKey é preenchida pelo handler de artigos para o log da requisição
	TrafficClassKey = "traffic_class"
)

// maxRequestIDLength evita ecoar ids arbitrariamente longos vindos do proxy
const maxRequestIDLength = 128

// RequestID propaga o X-Request-ID recebido do proxy ou gera um novo.
// O id fica disponível em c.Get(RequestIDKey) e volta no header da resposta.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := strings.TrimSpace(c.GetHeader(RequestIDHeader))
		if requestID == "" || len(requestID) > maxRequestIDLength {
			requestID = uuid.NewString()
		}

		c.Set(RequestIDKey, requestID)
		c.Header(RequestIDHeader, requestID)

		c.Next()
	}
}

// GetRequestID retorna o id da requisição atual, ou vazio fora do middleware
func GetRequestID(c *gin.Context) string {
	return c.GetString(RequestIDKey)
}
