package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/healthbuzzonline/post-gateway/internal/gateway"
	middlewares "github.com/healthbuzzonline/post-gateway/internal/middleware"
	"github.com/healthbuzzonline/post-gateway/internal/models"
	"github.com/healthbuzzonline/post-gateway/internal/utils"
	"go.uber.org/zap"
)

// PostHandler atende qualquer path de artigo não reservado
type PostHandler struct {
	engine         *gateway.Engine
	trackingParams []string
	logger         *zap.Logger
}

// NewPostHandler cria o handler de artigos. trackingParams são os nomes de
// parâmetros de query que carregam o id de rastreio, em ordem de preferência.
func NewPostHandler(engine *gateway.Engine, trackingParams []string, logger *zap.Logger) *PostHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PostHandler{
		engine:         engine,
		trackingParams: trackingParams,
		logger:         logger,
	}
}

// ServePost godoc
// @Summary Página de artigo com metadados sociais
// @Description Classifica a requisição (crawler, referência social ou direta) e, conforme a política ativa, responde com a página enriquecida com Open Graph, redireciona para o host canônico ou responde 404.
// @Tags posts
// @Produce html
// @Param path path string true "Path do artigo, ex: healthy-living/tips"
// @Param fbclid query string false "Identificador de rastreio de clique"
// @Param User-Agent header string false "User-Agent do cliente"
// @Param Referer header string false "Página de origem"
// @Success 200 {string} string "Documento HTML com metadados"
// @Success 307 {string} string "Redirecionamento para o host canônico"
// @Failure 404 {string} string "Artigo inexistente"
// @Failure 405 {string} string "Método não suportado"
// @Failure 502 {string} string "Falha na fonte de conteúdo"
// @Failure 504 {string} string "Timeout na fonte de conteúdo"
// @Router /{path} [get]
func (h *PostHandler) ServePost(c *gin.Context) {
	if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
		c.Header("Allow", "GET, HEAD")
		c.AbortWithStatus(http.StatusMethodNotAllowed)
		return
	}

	rc := h.requestContext(c)
	if rc.Path == "" {
		c.AbortWithStatus(http.StatusNotFound)
		return
	}

	result, err := h.engine.Serve(c.Request.Context(), rc)
	if err != nil {
		h.logger.Error("erro ao renderizar artigo",
			zap.String("path", rc.Path),
			zap.String("request_id", middlewares.GetRequestID(c)),
			zap.Error(err),
		)
		_ = c.Error(err)
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}

	c.Set(middlewares.TrafficClassKey, result.Class.String())
	writeResponse(c, result.Response)
}

// requestContext monta o RequestContext a partir da requisição HTTP
func (h *PostHandler) requestContext(c *gin.Context) models.RequestContext {
	referrer := c.GetHeader("Referer")
	if referrer == "" {
		referrer = c.GetHeader("Referrer")
	}

	return models.RequestContext{
		Path:          utils.NormalizePath(c.Request.URL.Path),
		Host:          c.Request.Host,
		Referrer:      referrer,
		TrackingParam: h.trackingParam(c),
		UserAgent:     c.Request.UserAgent(),
	}
}

// trackingParam retorna o primeiro parâmetro de rastreio não vazio
func (h *PostHandler) trackingParam(c *gin.Context) string {
	for _, name := range h.trackingParams {
		if value := strings.TrimSpace(c.Query(name)); value != "" {
			return value
		}
	}
	return ""
}

func writeResponse(c *gin.Context, resp *gateway.Response) {
	for key, values := range resp.Header {
		for _, value := range values {
			c.Writer.Header().Add(key, value)
		}
	}

	// Grava o status já: o gin completaria um 404 vazio com o próprio corpo
	c.Status(resp.Status)
	c.Writer.WriteHeaderNow()
	if len(resp.Body) > 0 && c.Request.Method != http.MethodHead {
		_, _ = c.Writer.Write(resp.Body)
	}
}
