package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/FERRETERIA-JyM-GUTIERREZ/AP-WEB-FERRE-JMG-sub001/internal/api/middleware"
	"github.com/FERRETERIA-JyM-GUTIERREZ/AP-WEB-FERRE-JMG-sub001/internal/repository"
	"github.com/FERRETERIA-JyM-GUTIERREZ/AP-WEB-FERRE-JMG-sub001/internal/store"
	"github.com/FERRETERIA-JyM-GUTIERREZ/AP-WEB-FERRE-JMG-sub001/pkg/errors"
)

// Favorites work for both surfaces: an authenticated request reads and
// writes the account list, an anonymous one the session list. The two are
// merged at login.

func HandleListFavorites(repos *repository.Repositories, sessions *store.SessionStore, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var ids []uuid.UUID
		var err error

		if user, ok := middleware.GetUserFromContext(c); ok {
			ids, err = repos.Favorite.ListProductIDs(c.Request.Context(), user.ID)
		} else {
			ids, err = sessions.GuestFavorites.List(c.Request.Context(), middleware.GetSessionKey(c))
		}
		if err != nil {
			respondError(c, logger, err)
			return
		}

		products, err := repos.Product.ListByIDs(c.Request.Context(), ids)
		if err != nil {
			respondError(c, logger, err)
			return
		}

		resp := make([]ProductResponse, len(products))
		for i, p := range products {
			resp[i] = toProductResponse(p)
		}

		c.JSON(http.StatusOK, gin.H{"favorites": resp})
	}
}

func HandleAddFavorite(repos *repository.Repositories, sessions *store.SessionStore, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		productID, err := uuid.Parse(c.Param("productID"))
		if err != nil {
			respondError(c, logger, &errors.ErrNotFound{Resource: "product", ID: c.Param("productID")})
			return
		}

		// The product must exist on either surface.
		if _, err := repos.Product.GetByID(c.Request.Context(), productID); err != nil {
			respondError(c, logger, err)
			return
		}

		if user, ok := middleware.GetUserFromContext(c); ok {
			err = repos.Favorite.Add(c.Request.Context(), user.ID, productID)
		} else {
			err = addGuestFavorite(c, sessions, productID)
		}
		if err != nil {
			respondError(c, logger, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"status": "added"})
	}
}

func addGuestFavorite(c *gin.Context, sessions *store.SessionStore, productID uuid.UUID) error {
	sessionKey := middleware.GetSessionKey(c)

	ids, err := sessions.GuestFavorites.List(c.Request.Context(), sessionKey)
	if err != nil {
		return err
	}

	for _, id := range ids {
		if id == productID {
			return nil
		}
	}

	return sessions.GuestFavorites.Save(c.Request.Context(), sessionKey, append(ids, productID))
}

func HandleRemoveFavorite(repos *repository.Repositories, sessions *store.SessionStore, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		productID, err := uuid.Parse(c.Param("productID"))
		if err != nil {
			respondError(c, logger, &errors.ErrNotFound{Resource: "product", ID: c.Param("productID")})
			return
		}

		if user, ok := middleware.GetUserFromContext(c); ok {
			err = repos.Favorite.Remove(c.Request.Context(), user.ID, productID)
		} else {
			err = removeGuestFavorite(c, sessions, productID)
		}
		if err != nil {
			respondError(c, logger, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"status": "removed"})
	}
}

// HandleMergeFavorites folds the current session's guest favorites into the
// authenticated account on demand, for clients that logged in on another
// device and kept browsing anonymously here.
func HandleMergeFavorites(repos *repository.Repositories, sessions *store.SessionStore, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := middleware.GetUserFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		mergeGuestFavorites(c, repos, sessions, user, logger)

		ids, err := repos.Favorite.ListProductIDs(c.Request.Context(), user.ID)
		if err != nil {
			respondError(c, logger, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"status": "merged", "count": len(ids)})
	}
}

func removeGuestFavorite(c *gin.Context, sessions *store.SessionStore, productID uuid.UUID) error {
	sessionKey := middleware.GetSessionKey(c)

	ids, err := sessions.GuestFavorites.List(c.Request.Context(), sessionKey)
	if err != nil {
		return err
	}

	kept := ids[:0]
	for _, id := range ids {
		if id != productID {
			kept = append(kept, id)
		}
	}

	return sessions.GuestFavorites.Save(c.Request.Context(), sessionKey, kept)
}
