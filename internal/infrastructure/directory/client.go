package directory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"skill-barter/internal/domain/profile"

	"github.com/google/uuid"
)

// ErrProfileNotFound is returned when the directory has no profile for an id.
var ErrProfileNotFound = errors.New("profile not found")

// Client talks to the user service that owns profile data. All calls run
// under a bounded timeout; expiry is treated as backend failure by callers.
type Client interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (profile.SkillProfile, error)
	ListProfiles(ctx context.Context, page, pageSize int) (ProfilePage, error)
	AddCredits(ctx context.Context, userID uuid.UUID, amount int) error
}

type ProfilePage struct {
	Profiles []profile.SkillProfile
	HasNext  bool
}

type httpClient struct {
	baseURL string
	client  *http.Client
	logger  *log.Logger
}

type skillDTO struct {
	SkillName string `json:"skill_name"`
}

type profileDTO struct {
	UserID        uuid.UUID  `json:"user_id"`
	UserName      string     `json:"user_name"`
	FirstName     string     `json:"first_name"`
	LastName      string     `json:"last_name"`
	Gender        string     `json:"gender"`
	Email         string     `json:"email"`
	SkillsOffered []skillDTO `json:"skills_offered"`
	SkillsWanted  []skillDTO `json:"skills_wanted"`
}

type profilePageDTO struct {
	Profiles []profileDTO `json:"profiles"`
	HasNext  bool         `json:"has_next"`
}

func NewClient(baseURL string, timeout time.Duration, logger *log.Logger) Client {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &httpClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

func (c *httpClient) GetProfile(ctx context.Context, userID uuid.UUID) (profile.SkillProfile, error) {
	if c == nil || c.client == nil {
		return profile.SkillProfile{}, errors.New("nil directory client")
	}

	endpoint := c.baseURL + "/v1/user/profile?userId=" + url.QueryEscape(userID.String())
	var dto profileDTO
	status, err := c.getJSON(ctx, endpoint, &dto)
	if err != nil {
		return profile.SkillProfile{}, err
	}
	if status == http.StatusNotFound {
		return profile.SkillProfile{}, ErrProfileNotFound
	}
	return dto.toProfile(), nil
}

func (c *httpClient) ListProfiles(ctx context.Context, page, pageSize int) (ProfilePage, error) {
	if c == nil || c.client == nil {
		return ProfilePage{}, errors.New("nil directory client")
	}
	if page < 0 {
		page = 0
	}
	if pageSize <= 0 {
		pageSize = 100
	}

	endpoint := fmt.Sprintf("%s/v1/user/profile/all?page=%d&size=%d", c.baseURL, page, pageSize)
	var dto profilePageDTO
	status, err := c.getJSON(ctx, endpoint, &dto)
	if err != nil {
		return ProfilePage{}, err
	}
	if status == http.StatusNotFound {
		return ProfilePage{}, nil
	}

	out := ProfilePage{HasNext: dto.HasNext, Profiles: make([]profile.SkillProfile, 0, len(dto.Profiles))}
	for _, p := range dto.Profiles {
		out.Profiles = append(out.Profiles, p.toProfile())
	}
	return out, nil
}

func (c *httpClient) AddCredits(ctx context.Context, userID uuid.UUID, amount int) error {
	if c == nil || c.client == nil {
		return errors.New("nil directory client")
	}

	endpoint := c.baseURL + "/v1/user/profile/credits/add?userId=" +
		url.QueryEscape(userID.String()) + "&amount=" + strconv.Itoa(amount)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, nil)
	if err != nil {
		return err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return c.statusError("AddCredits", endpoint, resp)
	}
	return nil
}

func (c *httpClient) getJSON(ctx context.Context, endpoint string, out any) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return 0, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return resp.StatusCode, nil
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return resp.StatusCode, c.statusError("GET", endpoint, resp)
	}

	dec := json.NewDecoder(resp.Body)
	if err := dec.Decode(out); err != nil {
		return resp.StatusCode, err
	}
	return resp.StatusCode, nil
}

func (c *httpClient) statusError(op, endpoint string, resp *http.Response) error {
	rb, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	body := strings.TrimSpace(string(rb))
	err := fmt.Errorf("directory %s failed: status=%d body=%s", op, resp.StatusCode, body)
	if c.logger != nil {
		c.logger.Printf("[Directory] %s error endpoint=%s status=%d body=%q", op, endpoint, resp.StatusCode, body)
	}
	return err
}

func (d profileDTO) toProfile() profile.SkillProfile {
	offered := make([]string, 0, len(d.SkillsOffered))
	for _, s := range d.SkillsOffered {
		if v := strings.TrimSpace(s.SkillName); v != "" {
			offered = append(offered, v)
		}
	}
	wanted := make([]string, 0, len(d.SkillsWanted))
	for _, s := range d.SkillsWanted {
		if v := strings.TrimSpace(s.SkillName); v != "" {
			wanted = append(wanted, v)
		}
	}
	return profile.SkillProfile{
		UserID:        d.UserID,
		UserName:      d.UserName,
		FirstName:     d.FirstName,
		LastName:      d.LastName,
		Gender:        d.Gender,
		Email:         d.Email,
		SkillsOffered: offered,
		SkillsWanted:  wanted,
	}
}

var _ Client = (*httpClient)(nil)
