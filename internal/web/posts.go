package web

import (
	"context"
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"yatube/internal/forms"
	"yatube/internal/messaging"
	"yatube/internal/models"
	"yatube/internal/store"
	"yatube/internal/urls"
)

func (s *Server) postDetail(c *gin.Context) {
	id, ok := postID(c)
	if !ok {
		s.notFound(c)
		return
	}
	ctx := c.Request.Context()
	post, err := s.store.Post(ctx, id)
	if err != nil {
		s.handleErr(c, err)
		return
	}
	comments, err := s.store.Comments(ctx, id)
	if err != nil {
		s.fail(c, err)
		return
	}
	actor := currentActor(c)
	s.page(c, http.StatusOK, "post_detail", gin.H{
		"Title":    "Post " + post.String(),
		"Actor":    actor,
		"Post":     post,
		"Comments": comments,
		"CanEdit":  actor != nil && actor.ID == post.AuthorID,
	})
}

// postForm is what the create/edit template needs.
type postForm struct {
	values   forms.PostValues
	selected *uint
	errors   *models.ValidationError
	isEdit   bool
}

func (s *Server) renderPostForm(c *gin.Context, code int, f postForm) {
	groups, err := s.store.Groups(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	title := "New post"
	if f.isEdit {
		title = "Edit post"
	}
	s.page(c, code, "create_post", gin.H{
		"Title":         title,
		"Actor":         currentActor(c),
		"Groups":        groups,
		"Values":        f.values,
		"SelectedGroup": f.selected,
		"Errors":        f.errors,
		"IsEdit":        f.isEdit,
	})
}

// submittedPost validates the post form in the request. Nothing is stored.
func submittedPost(c *gin.Context) (forms.PostValues, forms.Result[forms.Post], forms.Result[*forms.Image]) {
	var values forms.PostValues
	if err := c.ShouldBind(&values); err != nil {
		values = forms.PostValues{}
	}
	return values, forms.ParsePost(values), forms.ParseImage(uploadedFile(c, "image"))
}

func uploadedFile(c *gin.Context, field string) *multipart.FileHeader {
	header, err := c.FormFile(field)
	if err != nil {
		return nil
	}
	return header
}

func (s *Server) saveImage(ctx context.Context, img *forms.Image) (string, error) {
	if img == nil {
		return "", nil
	}
	return s.media.Put(ctx, img.Filename, img.ContentType, img.Reader())
}

func (s *Server) discardImage(ctx context.Context, ref string) {
	if ref == "" {
		return
	}
	if err := s.media.Delete(ctx, ref); err != nil {
		s.log.Warn("delete image", "ref", ref, "error", err)
	}
}

func (s *Server) postCreate(c *gin.Context) {
	actor := currentActor(c)
	if s.deny(c, s.guard.CreatePost(actor)) {
		return
	}
	if c.Request.Method != http.MethodPost {
		s.renderPostForm(c, http.StatusOK, postForm{})
		return
	}

	ctx := c.Request.Context()
	values, post, image := submittedPost(c)
	if verr := forms.Merge(post.Errors, image.Errors); !verr.Empty() {
		s.renderPostForm(c, http.StatusOK, postForm{values: values, selected: post.Data.GroupID, errors: verr})
		return
	}

	ref, err := s.saveImage(ctx, image.Data)
	if err != nil {
		s.fail(c, err)
		return
	}
	created, err := s.store.CreatePost(ctx, actor.ID, store.PostInput{
		Text:    post.Data.Text,
		GroupID: post.Data.GroupID,
		Image:   ref,
	})
	if err != nil {
		s.discardImage(ctx, ref)
		var verr *models.ValidationError
		if errors.As(err, &verr) {
			s.renderPostForm(c, http.StatusOK, postForm{values: values, selected: post.Data.GroupID, errors: verr})
			return
		}
		s.handleErr(c, err)
		return
	}

	s.events.Publish(ctx, messaging.SubjectPostCreated, messaging.NewPostEvent(created))
	c.Redirect(http.StatusFound, urls.Profile(actor.Username))
}

func (s *Server) postEdit(c *gin.Context) {
	id, ok := postID(c)
	if !ok {
		s.notFound(c)
		return
	}
	actor := currentActor(c)
	if s.deny(c, s.guard.Authenticated(actor, urls.PostEdit(id))) {
		return
	}
	ctx := c.Request.Context()
	existing, err := s.store.Post(ctx, id)
	if err != nil {
		s.handleErr(c, err)
		return
	}
	if s.deny(c, s.guard.EditPost(actor, existing)) {
		return
	}

	if c.Request.Method != http.MethodPost {
		values := forms.PostValues{Text: existing.Text}
		if existing.GroupID != nil {
			values.Group = strconv.FormatUint(uint64(*existing.GroupID), 10)
		}
		s.renderPostForm(c, http.StatusOK, postForm{values: values, selected: existing.GroupID, isEdit: true})
		return
	}

	values, post, image := submittedPost(c)
	if verr := forms.Merge(post.Errors, image.Errors); !verr.Empty() {
		s.renderPostForm(c, http.StatusOK, postForm{values: values, selected: post.Data.GroupID, errors: verr, isEdit: true})
		return
	}

	ref, err := s.saveImage(ctx, image.Data)
	if err != nil {
		s.fail(c, err)
		return
	}
	updated, err := s.store.UpdatePost(ctx, id, actor.ID, store.PostInput{
		Text:    post.Data.Text,
		GroupID: post.Data.GroupID,
		Image:   ref,
	})
	if err != nil {
		s.discardImage(ctx, ref)
		var verr *models.ValidationError
		switch {
		case errors.As(err, &verr):
			s.renderPostForm(c, http.StatusOK, postForm{values: values, selected: post.Data.GroupID, errors: verr, isEdit: true})
		case errors.Is(err, models.ErrForbidden):
			c.Redirect(http.StatusFound, urls.Post(id))
		default:
			s.handleErr(c, err)
		}
		return
	}
	if ref != "" && existing.Image != "" && existing.Image != ref {
		s.discardImage(ctx, existing.Image)
	}

	s.events.Publish(ctx, messaging.SubjectPostUpdated, messaging.NewPostEvent(updated))
	c.Redirect(http.StatusFound, urls.Post(id))
}

// addComment stores a valid comment and always returns to the post.
func (s *Server) addComment(c *gin.Context) {
	id, ok := postID(c)
	if !ok {
		s.notFound(c)
		return
	}
	actor := currentActor(c)
	if s.deny(c, s.guard.Comment(actor, id)) {
		return
	}
	ctx := c.Request.Context()
	if _, err := s.store.Post(ctx, id); err != nil {
		s.handleErr(c, err)
		return
	}

	var submitted forms.Comment
	if c.Request.Method == http.MethodPost {
		if err := c.ShouldBind(&submitted); err != nil {
			submitted = forms.Comment{}
		}
	}
	form := forms.ParseComment(submitted)
	if form.Valid() {
		comment, err := s.store.CreateComment(ctx, id, actor.ID, form.Data.Text)
		if err != nil {
			s.handleErr(c, err)
			return
		}
		s.events.Publish(ctx, messaging.SubjectCommentCreated, messaging.NewCommentEvent(comment))
	}
	c.Redirect(http.StatusFound, urls.Post(id))
}

func (s *Server) mediaFile(c *gin.Context) {
	rc, contentType, err := s.media.Open(c.Request.Context(), c.Param("ref"))
	if err != nil {
		s.handleErr(c, err)
		return
	}
	defer rc.Close()
	c.DataFromReader(http.StatusOK, -1, contentType, rc, nil)
}
