// Package session owns the state of one browser session and sequences the
// comparison flow: photo selection, adjective draw and generation.
package session

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"adjectivemagic/internal/adjective"
	"adjectivemagic/internal/domain"
	"adjectivemagic/internal/infra"
	"adjectivemagic/internal/preview"
	"adjectivemagic/internal/providers/genai"
	"adjectivemagic/internal/storage"
	"adjectivemagic/internal/subject"
)

// Status is the generation state.
type Status string

const (
	StatusIdle      Status = "idle"
	StatusInFlight  Status = "in_flight"
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

// Generator produces the comparison image.
type Generator interface {
	GenerateComparison(ctx context.Context, req genai.ComparisonRequest) (*genai.Image, error)
}

// BlobDeleter drops uploaded bytes that no subject owns anymore.
type BlobDeleter interface {
	Delete(h storage.FileHandle) error
}

// Deps are the collaborators shared by every session.
type Deps struct {
	Generator Generator
	Picker    *adjective.Picker
	Previews  *preview.Registry
	Blobs     BlobDeleter
	Logger    *infra.Logger
	Now       func() time.Time
}

// GalleryEntry is one successful generation.
type GalleryEntry struct {
	ImageRef  string    `json:"image_ref"`
	Name1     string    `json:"name1"`
	Name2     string    `json:"name2"`
	Adjective string    `json:"adjective"`
	CreatedAt time.Time `json:"created_at"`
}

// Snapshot is a read-only copy of the session state.
type Snapshot struct {
	ID             string             `json:"id"`
	Subjects       [2]subject.Subject `json:"subjects"`
	Adjective      string             `json:"adjective,omitempty"`
	Status         Status             `json:"status"`
	GeneratedImage string             `json:"generated_image,omitempty"`
	Error          string             `json:"error,omitempty"`
	Gallery        []GalleryEntry     `json:"gallery"`
	GalleryOpen    bool               `json:"gallery_open"`
	Version        uint64             `json:"version"`
}

// InFlight reports whether a generation attempt is running.
func (s Snapshot) InFlight() bool {
	return s.Status == StatusInFlight
}

type slotState struct {
	name    string
	file    storage.FileHandle
	preview *preview.Handle
}

// Session holds one browser session's state. All methods are safe for
// concurrent use; at most one generation runs at a time.
type Session struct {
	id     string
	locale string
	deps   Deps
	logger *infra.Logger
	hub    *hub

	mu          sync.Mutex
	slots       [2]slotState
	adjective   string
	status      Status
	generated   string
	errMsg      string
	gallery     []GalleryEntry
	galleryOpen bool
	version     uint64
	closed      bool
	lastSeen    time.Time
	bound       [2]storage.FileHandle
	retired     []storage.FileHandle
}

// New creates a session with both slots at their placeholders.
func New(id, locale string, deps Deps) *Session {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Previews == nil {
		deps.Previews = preview.NewRegistry()
	}
	base := deps.Logger
	if base == nil {
		base = infra.NopLogger()
	}
	logger := base.With().Str("session_id", id).Logger()

	s := &Session{
		id:       id,
		locale:   domain.NormalizeLocale(locale),
		deps:     deps,
		logger:   &logger,
		hub:      newHub(),
		status:   StatusIdle,
		gallery:  []GalleryEntry{},
		lastSeen: deps.Now(),
	}
	for i, slot := range subject.Slots {
		s.slots[i].name = slot.PlaceholderName()
	}
	return s
}

func (s *Session) ID() string {
	return s.id
}

func (s *Session) Locale() string {
	return s.locale
}

// Snapshot returns the current state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Subscribe registers an observer. The channel immediately carries the
// current snapshot, then one value per change; cancel stops delivery and
// closes the channel. Closing the session closes every channel.
func (s *Session) Subscribe() (<-chan Snapshot, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hub.subscribe(s.snapshotLocked())
}

// SelectFile makes file the photo of slot. The slot's previous preview is
// released before the new one is acquired, and the replaced upload is
// dropped once nothing uses it.
func (s *Session) SelectFile(slot subject.Slot, file storage.FileHandle) error {
	if !slot.Valid() {
		s.discard(file)
		return domain.NewError(domain.ErrInvalidSlot, s.locale, nil)
	}
	if file == nil {
		return domain.NewError(domain.ErrMissingInput, s.locale, errors.New("no file"))
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		s.discard(file)
		return domain.NewError(domain.ErrSessionClosed, s.locale, nil)
	}

	st := &s.slots[slot.Index()]
	if st.preview != nil {
		st.preview.Release()
		st.preview = nil
	}
	if st.file != nil {
		s.retireLocked(st.file)
	}
	st.file = file
	st.name = subject.DisplayName(slot, subject.ExtractName(file.Filename()))
	st.preview = s.deps.Previews.Acquire(file)

	s.logger.Debug().
		Str("slot", slot.String()).
		Str("filename", file.Filename()).
		Int64("bytes", file.Size()).
		Msg("session: photo selected")
	s.changedLocked()
	return nil
}

// RenameSubject overrides the derived display name. Blank input restores the
// slot placeholder.
func (s *Session) RenameSubject(slot subject.Slot, name string) error {
	if !slot.Valid() {
		return domain.NewError(domain.ErrInvalidSlot, s.locale, nil)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return domain.NewError(domain.ErrSessionClosed, s.locale, nil)
	}
	s.slots[slot.Index()].name = subject.DisplayName(slot, name)
	s.changedLocked()
	return nil
}

// DrawAdjective replaces the current adjective with a fresh draw and returns
// it. An attempt already in flight keeps the adjective it started with.
func (s *Session) DrawAdjective() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return "", domain.NewError(domain.ErrSessionClosed, s.locale, nil)
	}
	s.adjective = s.deps.Picker.Draw()
	s.changedLocked()
	return s.adjective, nil
}

// OpenGallery shows the gallery overlay.
func (s *Session) OpenGallery() {
	s.setGalleryOpen(true)
}

// CloseGallery hides the gallery overlay.
func (s *Session) CloseGallery() {
	s.setGalleryOpen(false)
}

func (s *Session) setGalleryOpen(open bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || s.galleryOpen == open {
		return
	}
	s.galleryOpen = open
	s.changedLocked()
}

type attempt struct {
	name1, name2 string
	adjective    string
	file1, file2 storage.FileHandle
}

// Generate runs one generation attempt to completion. While another attempt
// is in flight it returns domain.ErrInFlight without touching state. Missing
// photos or adjective set the error message and return
// domain.ErrMissingInput without calling the generator. Cancelling ctx does
// not abort a started attempt.
func (s *Session) Generate(ctx context.Context) error {
	done, err := s.Start(ctx)
	if err != nil {
		return err
	}
	return <-done
}

// Start performs the checks of Generate synchronously and, when they pass,
// moves the session to in_flight and finishes the attempt in the background.
// The returned channel yields the attempt's outcome once.
func (s *Session) Start(ctx context.Context) (<-chan error, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, domain.NewError(domain.ErrSessionClosed, s.locale, nil)
	}
	if s.status == StatusInFlight {
		s.mu.Unlock()
		return nil, domain.NewError(domain.ErrInFlight, s.locale, nil)
	}
	if s.slots[0].file == nil || s.slots[1].file == nil || s.adjective == "" {
		err := domain.NewError(domain.ErrMissingInput, s.locale, nil)
		s.errMsg = err.Message
		s.changedLocked()
		s.mu.Unlock()
		return nil, err
	}

	a := attempt{
		name1:     s.slots[0].name,
		name2:     s.slots[1].name,
		adjective: s.adjective,
		file1:     s.slots[0].file,
		file2:     s.slots[1].file,
	}
	s.bound = [2]storage.FileHandle{a.file1, a.file2}
	s.errMsg = ""
	s.generated = ""
	s.status = StatusInFlight
	s.changedLocked()
	s.mu.Unlock()

	s.logger.Info().
		Str("name1", a.name1).
		Str("name2", a.name2).
		Str("adjective", a.adjective).
		Msg("session: generation started")

	done := make(chan error, 1)
	go func() {
		done <- s.finish(context.WithoutCancel(ctx), a)
	}()
	return done, nil
}

func (s *Session) finish(ctx context.Context, a attempt) error {
	start := s.deps.Now()
	img, err := s.run(ctx, a)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.status = StatusFailed
		s.errMsg = userMessage(err, s.locale)
		s.logger.Warn().
			Err(err).
			Str("kind", kindName(err)).
			Dur("elapsed", s.deps.Now().Sub(start)).
			Msg("session: generation failed")
	} else {
		ref := img.DataURL()
		s.generated = ref
		s.gallery = append(s.gallery, GalleryEntry{
			ImageRef:  ref,
			Name1:     a.name1,
			Name2:     a.name2,
			Adjective: a.adjective,
			CreatedAt: s.deps.Now(),
		})
		s.status = StatusSucceeded
		s.logger.Info().
			Int("gallery_size", len(s.gallery)).
			Dur("elapsed", s.deps.Now().Sub(start)).
			Msg("session: generation succeeded")
	}
	s.bound = [2]storage.FileHandle{}
	s.flushRetiredLocked()
	s.changedLocked()
	return err
}

func (s *Session) run(ctx context.Context, a attempt) (*genai.Image, error) {
	enc1, enc2, err := storage.EncodePair(ctx, a.file1, a.file2)
	if err != nil {
		return nil, err
	}
	return s.deps.Generator.GenerateComparison(ctx, genai.ComparisonRequest{
		Name1:     a.name1,
		Name2:     a.name2,
		Adjective: a.adjective,
		Image1:    genai.EncodedImage{Data: enc1, MIMEType: a.file1.MIMEType()},
		Image2:    genai.EncodedImage{Data: enc2, MIMEType: a.file2.MIMEType()},
		Locale:    s.locale,
	})
}

// Touch records activity for idle expiry.
func (s *Session) Touch() {
	s.mu.Lock()
	s.lastSeen = s.deps.Now()
	s.mu.Unlock()
}

func (s *Session) idleSince() (time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen, s.status == StatusInFlight
}

// Close tears the session down: live previews are released, uploads dropped
// and subscribers disconnected. Calling Close again does nothing.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	for i := range s.slots {
		st := &s.slots[i]
		if st.preview != nil {
			st.preview.Release()
			st.preview = nil
		}
		if st.file != nil {
			s.retireLocked(st.file)
			st.file = nil
		}
	}
	if s.status != StatusInFlight {
		s.flushRetiredLocked()
	}
	s.hub.close()
	s.logger.Debug().Int("gallery_size", len(s.gallery)).Msg("session: closed")
}

// Closed reports whether Close has run.
func (s *Session) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// retireLocked drops h now, or after the running attempt when it is bound to
// it.
func (s *Session) retireLocked(h storage.FileHandle) {
	if s.status == StatusInFlight && (h == s.bound[0] || h == s.bound[1]) {
		s.retired = append(s.retired, h)
		return
	}
	s.discard(h)
}

func (s *Session) flushRetiredLocked() {
	for _, h := range s.retired {
		s.discard(h)
	}
	s.retired = nil
}

func (s *Session) discard(h storage.FileHandle) {
	if h == nil || s.deps.Blobs == nil {
		return
	}
	if err := s.deps.Blobs.Delete(h); err != nil {
		s.logger.Warn().Err(err).Str("file_id", h.ID()).Msg("session: drop upload failed")
	}
}

func (s *Session) changedLocked() {
	s.version++
	s.lastSeen = s.deps.Now()
	s.hub.publish(s.snapshotLocked())
}

func (s *Session) snapshotLocked() Snapshot {
	snap := Snapshot{
		ID:             s.id,
		Adjective:      s.adjective,
		Status:         s.status,
		GeneratedImage: s.generated,
		Error:          s.errMsg,
		Gallery:        make([]GalleryEntry, len(s.gallery)),
		GalleryOpen:    s.galleryOpen,
		Version:        s.version,
	}
	copy(snap.Gallery, s.gallery)
	for i, slot := range subject.Slots {
		st := s.slots[i]
		sub := subject.Placeholder(slot)
		sub.Name = st.name
		if st.preview != nil {
			sub.Preview = st.preview.URL()
		}
		sub.HasFile = st.file != nil
		snap.Subjects[i] = sub
	}
	return snap
}

// userMessage picks the text shown inline for a failed attempt.
func userMessage(err error, locale string) string {
	var derr *domain.Error
	if errors.As(err, &derr) {
		if strings.TrimSpace(derr.Message) != "" {
			return derr.Message
		}
		return domain.Message(derr.Kind, locale)
	}
	if kind := domain.Kind(err); kind != nil {
		return domain.Message(kind, locale)
	}
	if err != nil && strings.TrimSpace(err.Error()) != "" {
		return err.Error()
	}
	return domain.Message(domain.ErrGenerationFailed, locale)
}

func kindName(err error) string {
	if kind := domain.Kind(err); kind != nil {
		return kind.Error()
	}
	return "unknown"
}
