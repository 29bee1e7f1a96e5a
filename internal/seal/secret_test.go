package seal_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oakline/boardvault/internal/domain"
	"github.com/oakline/boardvault/internal/seal"
)

// ---------------------------------------------------------------------------
// CreateSecret / UpdateSecret
// ---------------------------------------------------------------------------

func TestCreateSecret(t *testing.T) {
	t.Parallel()

	orgID := uuid.New()

	t.Run("content is encrypted before it reaches the store", func(t *testing.T) {
		t.Parallel()

		repos := newMockRepos()
		var stored *domain.Secret
		repos.secrets.createFunc = func(_ context.Context, s *domain.Secret) error {
			stored = s
			return nil
		}
		engine := seal.New(repos, seal.WithCipher(fakeCipher{}))

		s := &domain.Secret{Title: "Supplier pricing model", Content: "unit economics"}
		err := engine.CreateSecret(context.Background(), principal(orgID, domain.RoleEditor), s)
		require.NoError(t, err)

		require.NotNil(t, stored)
		assert.Equal(t, "enc:unit economics", stored.Content)
		assert.Equal(t, "unit economics", s.Content, "caller keeps the plaintext")
		assert.Equal(t, domain.StatusDraft, stored.Status)
		assert.Equal(t, domain.ClassificationInternal, stored.Classification, "classification defaults to internal")
	})

	t.Run("viewer cannot create", func(t *testing.T) {
		t.Parallel()

		engine := seal.New(newMockRepos())
		err := engine.CreateSecret(context.Background(), principal(orgID, domain.RoleViewer), &domain.Secret{Title: "x"})
		assert.ErrorIs(t, err, domain.ErrPermissionDenied)
	})
}

func TestUpdateSecret(t *testing.T) {
	t.Parallel()

	orgID := uuid.New()
	secretID := uuid.New()

	t.Run("sealed content is frozen", func(t *testing.T) {
		t.Parallel()

		repos := newMockRepos()
		repos.secrets.getByIDFunc = func(_ context.Context, _, _ uuid.UUID) (*domain.Secret, error) {
			return &domain.Secret{ID: secretID, OrgID: orgID, Status: domain.StatusSealed}, nil
		}
		engine := seal.New(repos)

		err := engine.UpdateSecret(context.Background(), principal(orgID, domain.RoleAdmin), &domain.Secret{ID: secretID, Content: "new"})
		assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	})

	t.Run("draft content can be replaced", func(t *testing.T) {
		t.Parallel()

		repos := newMockRepos()
		repos.secrets.getByIDFunc = func(_ context.Context, _, _ uuid.UUID) (*domain.Secret, error) {
			return &domain.Secret{ID: secretID, OrgID: orgID, Status: domain.StatusDraft}, nil
		}
		var stored *domain.Secret
		repos.secrets.updateFunc = func(_ context.Context, s *domain.Secret) error {
			stored = s
			return nil
		}
		engine := seal.New(repos, seal.WithCipher(fakeCipher{}))

		err := engine.UpdateSecret(context.Background(), principal(orgID, domain.RoleEditor), &domain.Secret{ID: secretID, Title: "t", Content: "revised"})
		require.NoError(t, err)
		require.NotNil(t, stored)
		assert.Equal(t, "enc:revised", stored.Content)
	})
}

// ---------------------------------------------------------------------------
// SealSecret
// ---------------------------------------------------------------------------

func TestSealSecret(t *testing.T) {
	t.Parallel()

	orgID := uuid.New()
	secretID := uuid.New()

	draftSecret := func(content string) *domain.Secret {
		return &domain.Secret{
			ID:      secretID,
			OrgID:   orgID,
			Title:   "Formula",
			Content: content,
			Status:  domain.StatusDraft,
		}
	}

	t.Run("sealing a draft snapshots version 1", func(t *testing.T) {
		t.Parallel()

		repos := newMockRepos()
		repos.secrets.getByIDFunc = func(_ context.Context, _, _ uuid.UUID) (*domain.Secret, error) {
			return draftSecret("enc:the recipe"), nil
		}
		var sealedVersionID uuid.UUID
		repos.secrets.markSealedFunc = func(_ context.Context, _, _ uuid.UUID, versionID uuid.UUID) error {
			sealedVersionID = versionID
			return nil
		}
		engine := seal.New(repos, seal.WithCipher(fakeCipher{}))

		cert, err := engine.SealSecret(context.Background(), principal(orgID, domain.RoleAdmin), secretID, "")
		require.NoError(t, err)

		assert.Equal(t, 1, cert.VersionNumber)
		assert.Equal(t, secretID, cert.SecretID)
		assert.Equal(t, cert.VersionID, sealedVersionID)
		assert.Empty(t, cert.TSASerial)

		// Hash is computed over the decrypted content.
		wantHash, _, err := seal.CanonicalSecret("Formula", "the recipe")
		require.NoError(t, err)
		assert.Equal(t, wantHash, cert.SHA256Hash)

		// The stored version must verify against its own canonical payload.
		v, err := repos.secretVersions.GetByID(context.Background(), orgID, cert.VersionID)
		require.NoError(t, err)
		assert.NoError(t, seal.VerifyVersion(v))

		actions := repos.audit.actions()
		require.Len(t, actions, 1)
		assert.Equal(t, domain.AuditActionSeal, actions[0])
	})

	t.Run("sealing a draft rejects new content", func(t *testing.T) {
		t.Parallel()

		repos := newMockRepos()
		repos.secrets.getByIDFunc = func(_ context.Context, _, _ uuid.UUID) (*domain.Secret, error) {
			return draftSecret("stored"), nil
		}
		engine := seal.New(repos)

		_, err := engine.SealSecret(context.Background(), principal(orgID, domain.RoleAdmin), secretID, "override")
		assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	})

	t.Run("sealing a sealed secret requires new content", func(t *testing.T) {
		t.Parallel()

		repos := newMockRepos()
		repos.secrets.getByIDFunc = func(_ context.Context, _, _ uuid.UUID) (*domain.Secret, error) {
			s := draftSecret("v1")
			s.Status = domain.StatusSealed
			return s, nil
		}
		engine := seal.New(repos)

		_, err := engine.SealSecret(context.Background(), principal(orgID, domain.RoleOwner), secretID, "  ")
		assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	})

	t.Run("successor versions get monotonic numbers and leave priors intact", func(t *testing.T) {
		t.Parallel()

		current := draftSecret("enc:v1 content")
		repos := newMockRepos()
		repos.secrets.getByIDFunc = func(_ context.Context, _, _ uuid.UUID) (*domain.Secret, error) {
			return current, nil
		}
		repos.secrets.markSealedFunc = func(_ context.Context, _, _ uuid.UUID, _ uuid.UUID) error { return nil }
		repos.secrets.updateFunc = func(_ context.Context, s *domain.Secret) error {
			current = s
			return nil
		}
		engine := seal.New(repos, seal.WithCipher(fakeCipher{}))

		p := principal(orgID, domain.RoleAdmin)

		cert1, err := engine.SealSecret(context.Background(), p, secretID, "")
		require.NoError(t, err)
		require.Equal(t, 1, cert1.VersionNumber)

		current.Status = domain.StatusSealed
		cert2, err := engine.SealSecret(context.Background(), p, secretID, "v2 content")
		require.NoError(t, err)
		assert.Equal(t, 2, cert2.VersionNumber)
		assert.NotEqual(t, cert1.SHA256Hash, cert2.SHA256Hash)
		assert.Equal(t, "enc:v2 content", current.Content, "successor content replaces the stored content")

		// Version 1 is still there, still verifiable.
		v1, err := repos.secretVersions.GetByNumber(context.Background(), orgID, secretID, 1)
		require.NoError(t, err)
		assert.NoError(t, seal.VerifyVersion(v1))
	})

	t.Run("trust timestamp is attached when the TSA responds", func(t *testing.T) {
		t.Parallel()

		repos := newMockRepos()
		repos.secrets.getByIDFunc = func(_ context.Context, _, _ uuid.UUID) (*domain.Secret, error) {
			return draftSecret("content"), nil
		}
		repos.secrets.markSealedFunc = func(_ context.Context, _, _ uuid.UUID, _ uuid.UUID) error { return nil }

		ts := &fakeTimestamper{token: []byte{0x30, 0x82}, serial: "ab12"}
		engine := seal.New(repos, seal.WithTimestamper(ts))

		cert, err := engine.SealSecret(context.Background(), principal(orgID, domain.RoleAdmin), secretID, "")
		require.NoError(t, err)
		assert.Equal(t, "ab12", cert.TSASerial)
		assert.Equal(t, 1, ts.calls)

		v, err := repos.secretVersions.GetByID(context.Background(), orgID, cert.VersionID)
		require.NoError(t, err)
		assert.Equal(t, []byte{0x30, 0x82}, v.TSAToken)
	})

	t.Run("a TSA outage degrades to sealing without a token", func(t *testing.T) {
		t.Parallel()

		repos := newMockRepos()
		repos.secrets.getByIDFunc = func(_ context.Context, _, _ uuid.UUID) (*domain.Secret, error) {
			return draftSecret("content"), nil
		}
		repos.secrets.markSealedFunc = func(_ context.Context, _, _ uuid.UUID, _ uuid.UUID) error { return nil }

		ts := &fakeTimestamper{err: errors.New("tsa unreachable")}
		engine := seal.New(repos, seal.WithTimestamper(ts))

		cert, err := engine.SealSecret(context.Background(), principal(orgID, domain.RoleAdmin), secretID, "")
		require.NoError(t, err)
		assert.Empty(t, cert.TSASerial)
	})

	t.Run("superseded secrets cannot be sealed", func(t *testing.T) {
		t.Parallel()

		repos := newMockRepos()
		repos.secrets.getByIDFunc = func(_ context.Context, _, _ uuid.UUID) (*domain.Secret, error) {
			s := draftSecret("x")
			s.Status = domain.StatusSuperseded
			return s, nil
		}
		engine := seal.New(repos)

		_, err := engine.SealSecret(context.Background(), principal(orgID, domain.RoleAdmin), secretID, "new")
		assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	})

	t.Run("editor cannot seal", func(t *testing.T) {
		t.Parallel()

		engine := seal.New(newMockRepos())
		_, err := engine.SealSecret(context.Background(), principal(orgID, domain.RoleEditor), secretID, "")
		assert.ErrorIs(t, err, domain.ErrPermissionDenied)
	})
}

// ---------------------------------------------------------------------------
// ViewSecret — NDA gate and strict audit
// ---------------------------------------------------------------------------

func TestViewSecret(t *testing.T) {
	t.Parallel()

	orgID := uuid.New()
	secretID := uuid.New()

	sealedClassified := func() *domain.Secret {
		return &domain.Secret{
			ID:             secretID,
			OrgID:          orgID,
			Title:          "M&A target list",
			Content:        "enc:the list",
			Classification: domain.ClassificationClassified,
			Status:         domain.StatusSealed,
		}
	}

	t.Run("sealed classified requires NDA acknowledgement", func(t *testing.T) {
		t.Parallel()

		repos := newMockRepos()
		repos.secrets.getByIDFunc = func(_ context.Context, _, _ uuid.UUID) (*domain.Secret, error) {
			return sealedClassified(), nil
		}
		engine := seal.New(repos, seal.WithCipher(fakeCipher{}))

		_, err := engine.ViewSecret(context.Background(), principal(orgID, domain.RoleViewer), secretID)
		assert.ErrorIs(t, err, domain.ErrPermissionDenied)
		assert.Empty(t, repos.audit.actions(), "denied view produces no view event")
	})

	t.Run("acknowledged NDA unlocks the view", func(t *testing.T) {
		t.Parallel()

		p := principal(orgID, domain.RoleViewer)

		repos := newMockRepos()
		repos.secrets.getByIDFunc = func(_ context.Context, _, _ uuid.UUID) (*domain.Secret, error) {
			return sealedClassified(), nil
		}
		engine := seal.New(repos, seal.WithCipher(fakeCipher{}))

		require.NoError(t, engine.AcknowledgeNDA(context.Background(), p, secretID))

		s, err := engine.ViewSecret(context.Background(), p, secretID)
		require.NoError(t, err)
		assert.Equal(t, "the list", s.Content, "content is decrypted for the caller")

		assert.Equal(t, []string{domain.AuditActionNDAAccept, domain.AuditActionView}, repos.audit.actions())
	})

	t.Run("repeated NDA acknowledgement is idempotent", func(t *testing.T) {
		t.Parallel()

		p := principal(orgID, domain.RoleViewer)

		repos := newMockRepos()
		repos.secrets.getByIDFunc = func(_ context.Context, _, _ uuid.UUID) (*domain.Secret, error) {
			return sealedClassified(), nil
		}
		engine := seal.New(repos)

		require.NoError(t, engine.AcknowledgeNDA(context.Background(), p, secretID))
		require.NoError(t, engine.AcknowledgeNDA(context.Background(), p, secretID))

		grants, err := repos.accessGrants.ListBySecret(context.Background(), orgID, secretID)
		require.NoError(t, err)
		assert.Len(t, grants, 1)
	})

	t.Run("grant store failure is not a denial", func(t *testing.T) {
		t.Parallel()

		repos := newMockRepos()
		repos.secrets.getByIDFunc = func(_ context.Context, _, _ uuid.UUID) (*domain.Secret, error) {
			return sealedClassified(), nil
		}
		repos.accessGrants.getFunc = func(_ context.Context, _, _, _ uuid.UUID) (*domain.AccessGrant, error) {
			return nil, errors.New("grant store down")
		}
		engine := seal.New(repos, seal.WithCipher(fakeCipher{}))

		_, err := engine.ViewSecret(context.Background(), principal(orgID, domain.RoleViewer), secretID)
		require.Error(t, err)
		assert.NotErrorIs(t, err, domain.ErrPermissionDenied, "an outage must not read as a missing NDA")
		assert.Contains(t, err.Error(), "grant store down")
	})

	t.Run("sealed internal is viewable without a grant", func(t *testing.T) {
		t.Parallel()

		repos := newMockRepos()
		repos.secrets.getByIDFunc = func(_ context.Context, _, _ uuid.UUID) (*domain.Secret, error) {
			s := sealedClassified()
			s.Classification = domain.ClassificationInternal
			return s, nil
		}
		engine := seal.New(repos, seal.WithCipher(fakeCipher{}))

		s, err := engine.ViewSecret(context.Background(), principal(orgID, domain.RoleViewer), secretID)
		require.NoError(t, err)
		assert.Equal(t, "the list", s.Content)
	})

	t.Run("draft classified is viewable without a grant", func(t *testing.T) {
		t.Parallel()

		repos := newMockRepos()
		repos.secrets.getByIDFunc = func(_ context.Context, _, _ uuid.UUID) (*domain.Secret, error) {
			s := sealedClassified()
			s.Status = domain.StatusDraft
			return s, nil
		}
		engine := seal.New(repos, seal.WithCipher(fakeCipher{}))

		_, err := engine.ViewSecret(context.Background(), principal(orgID, domain.RoleViewer), secretID)
		assert.NoError(t, err, "NDA gate applies only once sealed")
	})

	t.Run("sealed view is blocked when the audit write fails", func(t *testing.T) {
		t.Parallel()

		p := principal(orgID, domain.RoleAdmin)

		repos := newMockRepos()
		repos.secrets.getByIDFunc = func(_ context.Context, _, _ uuid.UUID) (*domain.Secret, error) {
			s := sealedClassified()
			s.Classification = domain.ClassificationInternal
			return s, nil
		}
		repos.audit.recordFunc = func(_ context.Context, _ *domain.AuditEvent) error {
			return errors.New("audit store down")
		}
		engine := seal.New(repos)

		_, err := engine.ViewSecret(context.Background(), p, secretID)
		require.Error(t, err, "the view must not outrun its audit record")
	})
}

// ---------------------------------------------------------------------------
// VerifySecretVersion
// ---------------------------------------------------------------------------

func TestVerifySecretVersion(t *testing.T) {
	t.Parallel()

	orgID := uuid.New()
	secretID := uuid.New()

	t.Run("intact version verifies", func(t *testing.T) {
		t.Parallel()

		hash, canonical, err := seal.CanonicalSecret("t", "c")
		require.NoError(t, err)

		repos := newMockRepos()
		require.NoError(t, repos.secretVersions.CreateNext(context.Background(), &domain.SecretVersion{
			SecretID:         secretID,
			OrgID:            orgID,
			ContentCanonical: canonical,
			SHA256Hash:       hash,
		}))
		engine := seal.New(repos)

		v, err := engine.VerifySecretVersion(context.Background(), principal(orgID, domain.RoleViewer), secretID, 1)
		require.NoError(t, err)
		assert.Equal(t, hash, v.SHA256Hash)
	})

	t.Run("tampered payload surfaces as integrity mismatch", func(t *testing.T) {
		t.Parallel()

		hash, canonical, err := seal.CanonicalSecret("t", "c")
		require.NoError(t, err)

		tampered := append([]byte{}, canonical...)
		tampered[len(tampered)-2] ^= 0xff

		repos := newMockRepos()
		require.NoError(t, repos.secretVersions.CreateNext(context.Background(), &domain.SecretVersion{
			SecretID:         secretID,
			OrgID:            orgID,
			ContentCanonical: tampered,
			SHA256Hash:       hash,
		}))
		engine := seal.New(repos)

		_, err = engine.VerifySecretVersion(context.Background(), principal(orgID, domain.RoleViewer), secretID, 1)
		assert.ErrorIs(t, err, domain.ErrIntegrityMismatch)
	})

	t.Run("unknown version number is not found", func(t *testing.T) {
		t.Parallel()

		engine := seal.New(newMockRepos())
		_, err := engine.VerifySecretVersion(context.Background(), principal(orgID, domain.RoleViewer), secretID, 7)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

// ---------------------------------------------------------------------------
// SupersedeSecret / DeleteSecret
// ---------------------------------------------------------------------------

func TestSupersedeSecret(t *testing.T) {
	t.Parallel()

	orgID := uuid.New()
	secretID := uuid.New()

	t.Run("sealed can be superseded", func(t *testing.T) {
		t.Parallel()

		repos := newMockRepos()
		repos.secrets.getByIDFunc = func(_ context.Context, _, _ uuid.UUID) (*domain.Secret, error) {
			return &domain.Secret{ID: secretID, OrgID: orgID, Status: domain.StatusSealed}, nil
		}
		var updated *domain.Secret
		repos.secrets.updateFunc = func(_ context.Context, s *domain.Secret) error {
			updated = s
			return nil
		}
		engine := seal.New(repos)

		err := engine.SupersedeSecret(context.Background(), principal(orgID, domain.RoleAdmin), secretID)
		require.NoError(t, err)
		require.NotNil(t, updated)
		assert.Equal(t, domain.StatusSuperseded, updated.Status)
	})

	t.Run("draft cannot be superseded", func(t *testing.T) {
		t.Parallel()

		repos := newMockRepos()
		repos.secrets.getByIDFunc = func(_ context.Context, _, _ uuid.UUID) (*domain.Secret, error) {
			return &domain.Secret{ID: secretID, OrgID: orgID, Status: domain.StatusDraft}, nil
		}
		engine := seal.New(repos)

		err := engine.SupersedeSecret(context.Background(), principal(orgID, domain.RoleAdmin), secretID)
		assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	})
}

func TestDeleteSecret(t *testing.T) {
	t.Parallel()

	orgID := uuid.New()
	secretID := uuid.New()

	t.Run("sealed is never deletable", func(t *testing.T) {
		t.Parallel()

		repos := newMockRepos()
		repos.secrets.getByIDFunc = func(_ context.Context, _, _ uuid.UUID) (*domain.Secret, error) {
			return &domain.Secret{ID: secretID, OrgID: orgID, Status: domain.StatusSealed}, nil
		}
		engine := seal.New(repos)

		err := engine.DeleteSecret(context.Background(), principal(orgID, domain.RoleOwner), secretID)
		assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	})

	t.Run("draft can be deleted", func(t *testing.T) {
		t.Parallel()

		repos := newMockRepos()
		repos.secrets.getByIDFunc = func(_ context.Context, _, _ uuid.UUID) (*domain.Secret, error) {
			return &domain.Secret{ID: secretID, OrgID: orgID, Status: domain.StatusDraft}, nil
		}
		deleted := false
		repos.secrets.deleteFunc = func(_ context.Context, _, _ uuid.UUID) error {
			deleted = true
			return nil
		}
		engine := seal.New(repos)

		err := engine.DeleteSecret(context.Background(), principal(orgID, domain.RoleAdmin), secretID)
		require.NoError(t, err)
		assert.True(t, deleted)
	})
}
