package claim

import (
	"net/http"

	"github.com/ahwlsqja/ts-pass-claims/internal/common/errors"
	"github.com/ahwlsqja/ts-pass-claims/internal/common/middleware"
	"github.com/gin-gonic/gin"
)

// Handler handles HTTP requests for claim operations
type Handler struct {
	service *Service
}

// NewHandler creates a new claim handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers claim routes on the router group
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/register", h.Register)

	claims := rg.Group("/claims")
	{
		claims.POST("/nonce", h.IssueNonce)
		claims.GET("/:wallet", h.GetClaim)
	}
}

// Register godoc
// @Summary Register claim details
// @Description Verify a personal_sign signature over the registration message and store email/Discord for the wallet.
// @Description A wallet that is already registered only has its signature refreshed.
// @Tags claims
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "Signed registration"
// @Success 200 {object} RegisterResponse "Registered or already registered"
// @Failure 400 {object} middleware.FlatErrorResponse "Missing fields or malformed input"
// @Failure 403 {object} middleware.FlatErrorResponse "Signature or nonce mismatch"
// @Failure 409 {object} middleware.FlatErrorResponse "Email or Discord already registered"
// @Failure 500 {object} middleware.FlatErrorResponse "Could not save to database"
// @Router /register [post]
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondFlatError(c, errors.InvalidInput("Invalid JSON body"))
		return
	}

	receipt, err := h.service.Register(c.Request.Context(), req.toSubmission())
	if err != nil {
		middleware.RespondFlatError(c, err)
		return
	}

	c.JSON(http.StatusOK, ToRegisterResponse(receipt))
}

// IssueNonce godoc
// @Summary Issue a nonce
// @Description Issue a single-use nonce for the wallet, replacing any outstanding one, and return the messages to sign.
// @Tags claims
// @Accept json
// @Produce json
// @Param request body IssueNonceRequest true "Wallet address"
// @Success 200 {object} middleware.SuccessResponse{data=NonceResponse} "Issued nonce"
// @Failure 400 {object} middleware.ErrorResponse "Invalid address"
// @Failure 429 {object} middleware.ErrorResponse "Nonce requested too often"
// @Failure 503 {object} middleware.ErrorResponse "Storage unavailable"
// @Router /claims/nonce [post]
func (h *Handler) IssueNonce(c *gin.Context) {
	var req IssueNonceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondError(c, errors.InvalidInput(err.Error()))
		return
	}

	challenge, err := h.service.IssueChallenge(c.Request.Context(), req.WalletAddress, req.Email, req.Discord)
	if err != nil {
		middleware.RespondError(c, err)
		return
	}

	middleware.RespondOK(c, ToNonceResponse(challenge))
}

// GetClaim godoc
// @Summary Get claim by wallet
// @Description Retrieve the registered details of a wallet
// @Tags claims
// @Produce json
// @Param wallet path string true "Wallet address"
// @Success 200 {object} middleware.SuccessResponse{data=ClaimResponse} "Claim details"
// @Failure 400 {object} middleware.ErrorResponse "Invalid address"
// @Failure 404 {object} middleware.ErrorResponse "Claim not found"
// @Router /claims/{wallet} [get]
func (h *Handler) GetClaim(c *gin.Context) {
	found, err := h.service.GetClaim(c.Request.Context(), c.Param("wallet"))
	if err != nil {
		middleware.RespondError(c, err)
		return
	}

	middleware.RespondOK(c, ToClaimResponse(found))
}
