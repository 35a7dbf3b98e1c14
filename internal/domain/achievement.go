package domain

// Achievement is a catalog entry. The catalog is static; user unlocks are
// the append-only set on the user row.
type Achievement struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Hidden      bool   `json:"hidden,omitempty"`
}

// achievementCatalog holds every grantable achievement. Granting an id not
// present here is a silent no-op.
var achievementCatalog = map[string]Achievement{
	"beginner":        {ID: "beginner", Name: "Membro Fundador", Description: "Juntou-se à comunidade FielBet."},
	"vip_status":      {ID: "vip_status", Name: "VIP da Fiel", Description: "Tornou-se um membro VIP da comunidade.", Hidden: true},
	"first_bet":       {ID: "first_bet", Name: "Na Torcida", Description: "Fez sua primeira aposta."},
	"first_win":       {ID: "first_win", Name: "Sorte de Principiante", Description: "Ganhou sua primeira aposta."},
	"first_loss":      {ID: "first_loss", Name: "Faz Parte", Description: "Perdeu sua primeira aposta. Coragem!"},
	"first_multiple":  {ID: "first_multiple", Name: "Estrategista", Description: "Fez sua primeira aposta múltipla."},
	"multiple_win":    {ID: "multiple_win", Name: "Multiplicador", Description: "Ganhou uma aposta múltipla."},
	"level_5":         {ID: "level_5", Name: "Veterano", Description: "Alcançou o nível 5."},
	"level_10":        {ID: "level_10", Name: "Lenda", Description: "Alcançou o nível 10."},
	"first_purchase":  {ID: "first_purchase", Name: "Comprador Compulsivo", Description: "Fez sua primeira compra na Loja."},
	"first_mvp_vote":  {ID: "first_mvp_vote", Name: "Olho de Tandera", Description: "Votou pela primeira vez no MVP da partida."},
	"first_bolao":     {ID: "first_bolao", Name: "Pitonisa", Description: "Participou de um Bolão pela primeira vez."},
	// No current flow grants bet_cancelled; it stays in the catalog so
	// legacy-imported profiles that hold it still render.
	"bet_cancelled": {ID: "bet_cancelled", Name: "Sem Jogo", Description: "Teve uma aposta cancelada."},
}

// AchievementByID looks up a catalog entry.
func AchievementByID(id string) (Achievement, bool) {
	a, ok := achievementCatalog[id]
	return a, ok
}
