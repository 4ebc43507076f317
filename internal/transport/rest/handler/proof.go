package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"nishtha/internal/model"
	"nishtha/internal/player"
	"nishtha/internal/transport/rest/middleware"
)

// ProofHandler handles minting and recording proofs of completion
type ProofHandler struct {
	minter   player.Minter
	profiles Profiles
}

// NewProofHandler creates a new proof handler
func NewProofHandler(minter player.Minter, profiles Profiles) *ProofHandler {
	return &ProofHandler{minter: minter, profiles: profiles}
}

// Mint handles POST /v1/proofs/mint
// @Summary Mint a proof token to the learner's wallet
// @Tags proofs
// @Accept json
// @Produce json
// @Param body body model.MintRequest true "Project and course"
// @Success 200 {object} model.MintResult
// @Failure 403 {object} map[string]string
// @Security BearerAuth
// @Router /proofs/mint [post]
func (h *ProofHandler) Mint(w http.ResponseWriter, r *http.Request) {
	var req model.MintRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	wallet := middleware.GetWallet(r.Context())
	if req.UserWalletAddress == "" {
		req.UserWalletAddress = wallet
	}
	if !strings.EqualFold(req.UserWalletAddress, wallet) {
		writeError(w, http.StatusForbidden, "proofs can only be minted to your own wallet")
		return
	}

	result, err := h.minter.Mint(r.Context(), req)
	if err != nil {
		writeError(w, statusFor(err), "Failed to mint NFT: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// SaveProject handles POST /v1/projects
// @Summary Record a verified project
// @Tags proofs
// @Accept json
// @Produce json
// @Param body body model.SaveProjectRequest true "Verified project"
// @Success 200 {object} model.VerifiedProject
// @Security BearerAuth
// @Router /projects [post]
func (h *ProofHandler) SaveProject(w http.ResponseWriter, r *http.Request) {
	var req model.SaveProjectRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	email := middleware.GetEmail(r.Context())
	if req.UserEmail != "" && !strings.EqualFold(req.UserEmail, email) {
		writeError(w, http.StatusForbidden, "projects can only be saved to your own profile")
		return
	}
	req.UserEmail = email
	if req.UserWalletAddress == "" {
		req.UserWalletAddress = middleware.GetWallet(r.Context())
	}

	project, err := h.profiles.SaveProject(r.Context(), req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "project": project})
}

// Certificate handles GET /v1/certificates/{projectId}
// @Summary Public certificate of a verified project
// @Tags proofs
// @Produce json
// @Param projectId path string true "Project id"
// @Success 200 {object} model.Certificate
// @Failure 404 {object} map[string]string
// @Router /certificates/{projectId} [get]
func (h *ProofHandler) Certificate(w http.ResponseWriter, r *http.Request) {
	cert, err := h.profiles.GetCertificate(r.Context(), mux.Vars(r)["projectId"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cert)
}

// Leaderboard handles GET /v1/leaderboard
// @Summary Learners with the most verified projects
// @Tags proofs
// @Produce json
// @Param limit query int false "Number of entries"
// @Success 200 {array} cache.LeaderboardEntry
// @Router /leaderboard [get]
func (h *ProofHandler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	entries, err := h.profiles.Leaderboard(r.Context(), limit)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}
