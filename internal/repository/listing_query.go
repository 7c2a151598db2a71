package repository

import (
	"fmt"
	"strings"

	"github.com/uma-arai/sbcntr-stay/internal/model"
)

const listingColumns = `
			l.id,
			l.host_id,
			l.title,
			l.description,
			l.location,
			l.latitude,
			l.longitude,
			l.price_per_night,
			l.guests,
			l.bedrooms,
			l.bathrooms,
			l.property_type,
			l.amenities,
			l.images,
			l.house_rules,
			l.is_active,
			l.created_at,
			l.updated_at,
			u.first_name AS host_first_name,
			u.last_name AS host_last_name,
			u.is_superhost,
			COALESCE(AVG(r.rating), 0) AS rating,
			COUNT(r.id) AS review_count`

const listingJoins = `
		FROM listings l
		LEFT JOIN users u ON l.host_id = u.id
		LEFT JOIN reviews r ON l.id = r.listing_id`

// 検索結果の並び順。同時刻に作成された行があってもページングが安定するようidを併用する
const listingOrder = `l.created_at DESC, l.id DESC`

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// sqlBuilder はWHERE句の断片とプレースホルダーの引数を積み上げます
type sqlBuilder struct {
	conds []string
	args  []interface{}
}

// bind は値を引数に追加し、対応するプレースホルダーを返します
func (b *sqlBuilder) bind(v interface{}) string {
	b.args = append(b.args, v)
	return fmt.Sprintf("$%d", len(b.args))
}

func (b *sqlBuilder) where(format string, v interface{}) {
	b.conds = append(b.conds, fmt.Sprintf(format, b.bind(v)))
}

// buildSearchQuery は検索条件からリスティング検索のSQLと引数を組み立てます
// 条件は指定されたものだけをANDで連結するため、どの組み合わせでも同じ経路で処理されます
func buildSearchQuery(f model.ListingFilter) (string, []interface{}) {
	b := &sqlBuilder{conds: []string{"l.is_active = true"}}

	if f.Location != nil {
		b.where("l.location ILIKE %s", "%"+likeEscaper.Replace(*f.Location)+"%")
	}
	if f.MinPrice != nil {
		b.where("l.price_per_night >= %s", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		b.where("l.price_per_night <= %s", *f.MaxPrice)
	}
	if f.Guests != nil {
		b.where("l.guests >= %s", *f.Guests)
	}

	var q strings.Builder
	q.WriteString("SELECT")
	q.WriteString(listingColumns)
	q.WriteString(listingJoins)
	q.WriteString("\n\t\tWHERE ")
	q.WriteString(strings.Join(b.conds, " AND "))
	q.WriteString("\n\t\tGROUP BY l.id, u.first_name, u.last_name, u.is_superhost")
	q.WriteString("\n\t\tORDER BY " + listingOrder)

	if f.Limit != nil {
		q.WriteString("\n\t\tLIMIT " + b.bind(*f.Limit))
	}
	if f.Offset != nil {
		q.WriteString("\n\t\tOFFSET " + b.bind(*f.Offset))
	}

	return q.String(), b.args
}

// detailQuery は公開中のリスティング1件をホストの登録日付きで取得します
const detailQuery = `
		SELECT` + listingColumns + `,
			u.created_at AS host_joined` + listingJoins + `
		WHERE l.id = $1 AND l.is_active = true
		GROUP BY l.id, u.first_name, u.last_name, u.is_superhost, u.created_at
	`
