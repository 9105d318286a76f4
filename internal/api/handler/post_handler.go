package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/memberbase/membership-api/internal/api/metrics"
	"github.com/memberbase/membership-api/internal/core/domain"
	"github.com/memberbase/membership-api/internal/core/ports"
)

type PostHandler struct {
	postService ports.PostService
}

func NewPostHandler(postService ports.PostService) *PostHandler {
	return &PostHandler{postService: postService}
}

type createPostRequest struct {
	Title string `json:"title" validate:"required,min=2,max=200"`
	Body  string `json:"body" validate:"required,max=10000"`
}

type createAnswerRequest struct {
	Body string `json:"body" validate:"required,max=10000"`
}

type postDetailResponse struct {
	Post    *domain.Post     `json:"post"`
	Answers []*domain.Answer `json:"answers"`
}

// Create posts a new question.
//
// @Summary      Create a question
// @Tags         posts
// @Accept       json
// @Produce      json
// @Param        body  body      createPostRequest  true  "Question"
// @Success      201   {object}  okResponse
// @Failure      422   {object}  errorResponse
// @Security     BearerAuth
// @Router       /posts [post]
func (h *PostHandler) Create(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}

	var req createPostRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	post, err := h.postService.Create(c.Request().Context(), claims, ports.CreatePostInput{
		Title: req.Title,
		Body:  req.Body,
	})
	if err != nil {
		return err
	}
	return ok(c, http.StatusCreated, "question posted", post)
}

// List returns all questions with their cached counters.
//
// @Summary      List questions
// @Tags         posts
// @Produce      json
// @Success      200  {object}  okResponse
// @Security     BearerAuth
// @Router       /posts [get]
func (h *PostHandler) List(c echo.Context) error {
	posts, err := h.postService.List(c.Request().Context())
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, "", posts)
}

// Get returns one question and its answers.
//
// @Summary      Get a question with answers
// @Tags         posts
// @Produce      json
// @Param        id  path      string  true  "Post ID"
// @Success      200 {object}  okResponse
// @Failure      404 {object}  errorResponse
// @Security     BearerAuth
// @Router       /posts/{id} [get]
func (h *PostHandler) Get(c echo.Context) error {
	post, answers, err := h.postService.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, "", postDetailResponse{Post: post, Answers: answers})
}

// Delete removes a question with its answers and votes. Admins may delete
// any question, authors their own.
//
// @Summary      Delete a question
// @Tags         posts
// @Produce      json
// @Param        id  path      string  true  "Post ID"
// @Success      200 {object}  okResponse
// @Failure      403 {object}  errorResponse
// @Failure      404 {object}  errorResponse
// @Security     BearerAuth
// @Router       /posts/{id} [delete]
func (h *PostHandler) Delete(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}

	if err := h.postService.Delete(c.Request().Context(), claims, c.Param("id")); err != nil {
		return err
	}
	return ok(c, http.StatusOK, "question deleted", nil)
}

// CreateAnswer replies to a question.
//
// @Summary      Answer a question
// @Tags         posts
// @Accept       json
// @Produce      json
// @Param        id    path      string               true  "Post ID"
// @Param        body  body      createAnswerRequest  true  "Answer"
// @Success      201   {object}  okResponse
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Security     BearerAuth
// @Router       /posts/{id}/answers [post]
func (h *PostHandler) CreateAnswer(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}

	var req createAnswerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	answer, err := h.postService.CreateAnswer(c.Request().Context(), claims, c.Param("id"), req.Body)
	if err != nil {
		return err
	}
	return ok(c, http.StatusCreated, "answer posted", answer)
}

// DeleteAnswer removes an answer. Admins may delete any answer, authors
// their own.
//
// @Summary      Delete an answer
// @Tags         posts
// @Produce      json
// @Param        id  path      string  true  "Answer ID"
// @Success      200 {object}  okResponse
// @Failure      403 {object}  errorResponse
// @Failure      404 {object}  errorResponse
// @Security     BearerAuth
// @Router       /answers/{id} [delete]
func (h *PostHandler) DeleteAnswer(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}

	if err := h.postService.DeleteAnswer(c.Request().Context(), claims, c.Param("id")); err != nil {
		return err
	}
	return ok(c, http.StatusOK, "answer deleted", nil)
}

// ToggleVote flips the caller's vote on a question and returns the new
// state. Calling it twice lands back where it started.
//
// @Summary      Toggle a vote on a question
// @Tags         posts
// @Produce      json
// @Param        id  path      string  true  "Post ID"
// @Success      200 {object}  okResponse
// @Failure      404 {object}  errorResponse
// @Security     BearerAuth
// @Router       /posts/{id}/vote [post]
func (h *PostHandler) ToggleVote(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}

	result, err := h.postService.ToggleVote(c.Request().Context(), claims, c.Param("id"))
	if err != nil {
		return err
	}

	if result.Voted {
		metrics.VotesToggledTotal.WithLabelValues("on").Inc()
	} else {
		metrics.VotesToggledTotal.WithLabelValues("off").Inc()
	}
	return ok(c, http.StatusOK, "", result)
}
