package metadomain

import (
	"strconv"

	"github.com/sirupsen/logrus"
)

type Action struct {
	ActionType string `json:"action_type"`
	Value      string `json:"value"`
}

type Cursors struct {
	Before string `json:"before"`
	After  string `json:"after"`
}

type Paging struct {
	Cursors Cursors `json:"cursors"`
	Next    string  `json:"next,omitempty"`
}

// CampaignInsight é uma linha de /act_{id}/insights com level=campaign.
// A Graph API devolve os números como texto.
type CampaignInsight struct {
	AccountID    string   `json:"account_id"`
	CampaignID   string   `json:"campaign_id"`
	CampaignName string   `json:"campaign_name"`
	Objective    string   `json:"objective"`
	Spend        string   `json:"spend"`
	Impressions  string   `json:"impressions"`
	Clicks       string   `json:"clicks"`
	Actions      []Action `json:"actions"`
	DateStart    string   `json:"date_start"`
	DateStop     string   `json:"date_stop"`
}

type InsightsPage struct {
	Data   []CampaignInsight `json:"data"`
	Paging *Paging           `json:"paging,omitempty"`
}

// GetResult retorna a quantidade da ação que representa o objetivo da
// campanha. Objetivos não mapeados contam zero resultados.
func (c *CampaignInsight) GetResult() (int64, error) {
	actionType, ok := MetaObjectiveToActionType[c.Objective]
	if !ok {
		logrus.WithFields(logrus.Fields{
			"campaign_id": c.CampaignID,
			"objective":   c.Objective,
		}).Debug("meta: objetivo não mapeado")
		return 0, nil
	}

	for _, action := range c.Actions {
		if action.ActionType != actionType {
			continue
		}

		value, err := strconv.ParseFloat(action.Value, 64)
		if err != nil {
			return 0, err
		}

		return int64(value), nil
	}

	return 0, nil
}
