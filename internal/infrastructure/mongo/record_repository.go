package mongo

import (
	"context"
	"regexp"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sngm3741/facts-finders/api/internal/factsfinder/application"
	"github.com/sngm3741/facts-finders/api/internal/factsfinder/domain"
)

// RecordRepository は Facts Finder レコードを MongoDB で扱う実装リポジトリ。
type RecordRepository struct {
	records *mongo.Collection
}

// NewRecordRepository はレコードコレクションを束縛したリポジトリを構築する。
func NewRecordRepository(db *mongo.Database, collection string) *RecordRepository {
	return &RecordRepository{records: db.Collection(collection)}
}

// EnsureIndexes は出力条件 (dateTime 範囲・name 部分一致) 向けのインデックスを作成する。
func (r *RecordRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.records.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "dateTime", Value: 1}},
			Options: options.Index().SetName("idx_record_dateTime"),
		},
		{
			Keys:    bson.D{{Key: "name", Value: 1}},
			Options: options.Index().SetName("idx_record_name"),
		},
	})
	return err
}

// Insert はレコードを 1 件追加し、採番した ID をドメインモデルへ反映する。
func (r *RecordRepository) Insert(ctx context.Context, record *domain.Record) error {
	doc := toRecordDocument(*record)
	doc.ID = primitive.NewObjectID()

	if _, err := r.records.InsertOne(ctx, doc); err != nil {
		return err
	}
	record.ID = doc.ID.Hex()
	return nil
}

// Find は出力条件を Mongo クエリへ落とし込み、dateTime 昇順でレコードを返す。
func (r *RecordRepository) Find(ctx context.Context, filter application.ExportFilter) ([]domain.Record, error) {
	opts := options.Find().SetSort(bson.D{{Key: "dateTime", Value: 1}, {Key: "_id", Value: 1}})
	cursor, err := r.records.Find(ctx, buildRecordFilter(filter), opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	records := make([]domain.Record, 0)
	for cursor.Next(ctx) {
		var doc RecordDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		records = append(records, mapRecordDocument(doc))
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

// FindByID は単一レコードを取得する。seed の確認や運用時の調査に使う。
func (r *RecordRepository) FindByID(ctx context.Context, id string) (*domain.Record, error) {
	objectID, err := primitive.ObjectIDFromHex(strings.TrimSpace(id))
	if err != nil {
		return nil, err
	}

	var doc RecordDocument
	if err := r.records.FindOne(ctx, bson.M{"_id": objectID}).Decode(&doc); err != nil {
		return nil, err
	}
	record := mapRecordDocument(doc)
	return &record, nil
}

// buildRecordFilter は日付の上下限（両端含む）と name の大文字小文字を無視した部分一致を組み立てる。
// name は正規表現としてではなく文字列として扱う。
func buildRecordFilter(filter application.ExportFilter) bson.M {
	mongoFilter := bson.M{}

	if filter.Start != nil || filter.End != nil {
		bounds := bson.M{}
		if filter.Start != nil {
			bounds["$gte"] = *filter.Start
		}
		if filter.End != nil {
			bounds["$lte"] = *filter.End
		}
		mongoFilter["dateTime"] = bounds
	}

	if name := strings.TrimSpace(filter.Name); name != "" {
		mongoFilter["name"] = primitive.Regex{Pattern: regexp.QuoteMeta(name), Options: "i"}
	}

	return mongoFilter
}

func toRecordDocument(r domain.Record) RecordDocument {
	return RecordDocument{
		DateTime:          r.DateTime,
		Name:              r.Name,
		EtcCode:           r.EtcCode,
		CustomerName:      r.CustomerName,
		DOB:               r.DOB,
		ContactNo1:        r.ContactNo1,
		ContactNo2:        r.ContactNo2,
		Force:             r.Force,
		BN:                r.BN,
		Comp:              r.Comp,
		Married:           r.Married,
		Kids:              r.Kids,
		Child1Age:         r.Child1Age,
		Child2Age:         r.Child2Age,
		Income:            r.Income,
		Savings:           r.Savings,
		InsurancePremium:  r.InsurancePremium,
		PlanName:          r.PlanName,
		MFSIPAmount:       r.MFSIPAmount,
		InvestAmount:      r.InvestAmount,
		FutureInvestments: r.FutureInvestments,
		ClientNeeds:       r.ClientNeeds,
		FinancialServices: r.FinancialServices,
		Feedback:          r.Feedback,
		CustomerImage:     r.CustomerImage,
		Latitude:          r.Latitude,
		Longitude:         r.Longitude,
		CreatedAt:         r.CreatedAt,
	}
}

func mapRecordDocument(doc RecordDocument) domain.Record {
	return domain.Record{
		ID:                doc.ID.Hex(),
		DateTime:          doc.DateTime,
		Name:              doc.Name,
		EtcCode:           doc.EtcCode,
		CustomerName:      doc.CustomerName,
		DOB:               doc.DOB,
		ContactNo1:        doc.ContactNo1,
		ContactNo2:        doc.ContactNo2,
		Force:             doc.Force,
		BN:                doc.BN,
		Comp:              doc.Comp,
		Married:           doc.Married,
		Kids:              doc.Kids,
		Child1Age:         doc.Child1Age,
		Child2Age:         doc.Child2Age,
		Income:            doc.Income,
		Savings:           doc.Savings,
		InsurancePremium:  doc.InsurancePremium,
		PlanName:          doc.PlanName,
		MFSIPAmount:       doc.MFSIPAmount,
		InvestAmount:      doc.InvestAmount,
		FutureInvestments: doc.FutureInvestments,
		ClientNeeds:       doc.ClientNeeds,
		FinancialServices: doc.FinancialServices,
		Feedback:          doc.Feedback,
		CustomerImage:     doc.CustomerImage,
		Latitude:          doc.Latitude,
		Longitude:         doc.Longitude,
		CreatedAt:         doc.CreatedAt,
	}
}
