package league

import "fmt"

// League is a competition the standings screen can browse.
type League struct {
	ID      string
	Name    string
	Country string
	LogoURL string
}

func (l League) Validate() error {
	if l.ID == "" {
		return fmt.Errorf("league id is required")
	}
	if l.Name == "" {
		return fmt.Errorf("league name is required")
	}

	return nil
}
