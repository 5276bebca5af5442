package service

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/madan1440/svlf-software/internal/repository"
	customError "github.com/madan1440/svlf-software/pkg/errors"
	"github.com/madan1440/svlf-software/pkg/utils"
)

// Export types accepted by ExportCSV.
const (
	ExportFull         = "full"
	ExportVehicles     = "vehicles"
	ExportSellers      = "sellers"
	ExportBuyers       = "buyers"
	ExportInstallments = "installments"
)

// ExportService streams table data as CSV. Dates are ISO YYYY-MM-DD
// and amounts are whole rupees, matching what operators type in.
type ExportService struct {
	vehicleRepo     repository.VehicleRepository
	buyerRepo       repository.BuyerRepository
	installmentRepo repository.InstallmentRepository
}

func NewExportService(
	vehicleRepo repository.VehicleRepository,
	buyerRepo repository.BuyerRepository,
	installmentRepo repository.InstallmentRepository,
) *ExportService {
	return &ExportService{
		vehicleRepo:     vehicleRepo,
		buyerRepo:       buyerRepo,
		installmentRepo: installmentRepo,
	}
}

// ExportCSV writes one table, or the full joined dataset, to w.
func (s *ExportService) ExportCSV(ctx context.Context, exportType string, w io.Writer) error {
	writer := csv.NewWriter(w)

	var err error
	switch exportType {
	case ExportVehicles:
		err = s.writeVehicles(ctx, writer)
	case ExportSellers:
		err = s.writeSellers(ctx, writer)
	case ExportBuyers:
		err = s.writeBuyers(ctx, writer)
	case ExportInstallments:
		err = s.writeInstallments(ctx, writer)
	case ExportFull:
		err = s.writeFull(ctx, writer)
	default:
		return fmt.Errorf("unknown export type %q", exportType)
	}
	if err != nil {
		return err
	}

	writer.Flush()
	return writer.Error()
}

func (s *ExportService) writeVehicles(ctx context.Context, w *csv.Writer) error {
	vehicles, err := s.vehicleRepo.List(ctx, repository.VehicleFilter{})
	if err != nil {
		return customError.WrapDatabaseError(err)
	}

	if err = w.Write([]string{"id", "type", "name", "brand", "model", "color", "number", "status"}); err != nil {
		return err
	}
	for _, v := range vehicles {
		record := []string{
			strconv.FormatInt(v.ID, 10),
			v.Type, v.Name, v.Brand, v.Model, v.Color, v.Number, v.Status,
		}
		if err = w.Write(record); err != nil {
			return err
		}
	}
	return nil
}

func (s *ExportService) writeSellers(ctx context.Context, w *csv.Writer) error {
	sellers, err := s.vehicleRepo.ListSellers(ctx)
	if err != nil {
		return customError.WrapDatabaseError(err)
	}

	if err = w.Write([]string{"vehicle_id", "seller_name", "seller_phone", "seller_city", "buy_value", "buy_date", "comments"}); err != nil {
		return err
	}
	for _, sl := range sellers {
		record := []string{
			strconv.FormatInt(sl.VehicleID, 10),
			sl.SellerName, sl.SellerPhone, sl.SellerCity,
			strconv.FormatInt(sl.BuyValue, 10),
			sl.BuyDate, sl.Comments,
		}
		if err = w.Write(record); err != nil {
			return err
		}
	}
	return nil
}

func (s *ExportService) writeBuyers(ctx context.Context, w *csv.Writer) error {
	buyers, err := s.buyerRepo.ListAll(ctx)
	if err != nil {
		return customError.WrapDatabaseError(err)
	}

	header := []string{
		"id", "vehicle_id", "record_no", "name", "phone", "address",
		"sale_date", "sale_value", "finance_amount", "installment_amount", "tenure_months",
	}
	if err = w.Write(header); err != nil {
		return err
	}
	for _, b := range buyers {
		record := []string{
			strconv.FormatInt(b.ID, 10),
			strconv.FormatInt(b.VehicleID, 10),
			b.RecordNo, b.Name, b.Phone, b.Address,
			utils.FormatISODate(b.SaleDate),
			strconv.FormatInt(b.SaleValue, 10),
			strconv.FormatInt(b.FinanceAmount, 10),
			strconv.FormatInt(b.InstallmentAmount, 10),
			strconv.Itoa(b.TenureMonths),
		}
		if err = w.Write(record); err != nil {
			return err
		}
	}
	return nil
}

func (s *ExportService) writeInstallments(ctx context.Context, w *csv.Writer) error {
	installments, err := s.installmentRepo.ListAll(ctx)
	if err != nil {
		return customError.WrapDatabaseError(err)
	}

	if err = w.Write([]string{"id", "buyer_id", "sequence_no", "due_date", "amount", "paid", "paid_date"}); err != nil {
		return err
	}
	for _, inst := range installments {
		paidDate := ""
		if inst.PaidDate != nil {
			paidDate = utils.FormatISODate(*inst.PaidDate)
		}
		record := []string{
			inst.ID.String(),
			strconv.FormatInt(inst.BuyerID, 10),
			strconv.Itoa(inst.SequenceNo),
			utils.FormatISODate(inst.DueDate),
			strconv.FormatInt(inst.Amount, 10),
			strconv.FormatBool(inst.Paid),
			paidDate,
		}
		if err = w.Write(record); err != nil {
			return err
		}
	}
	return nil
}

// writeFull produces one denormalized row per vehicle joining seller,
// buyer, and schedule progress. This is the sheet the dealership
// actually reads.
func (s *ExportService) writeFull(ctx context.Context, w *csv.Writer) error {
	vehicles, err := s.vehicleRepo.List(ctx, repository.VehicleFilter{})
	if err != nil {
		return customError.WrapDatabaseError(err)
	}

	header := []string{
		"vehicle_id", "type", "name", "brand", "model", "color", "number", "status",
		"seller_name", "seller_phone", "buy_value", "buy_date",
		"buyer_name", "buyer_phone", "sale_date", "sale_value",
		"finance_amount", "installment_amount", "tenure_months",
		"installments_paid", "installments_overdue",
	}
	if err = w.Write(header); err != nil {
		return err
	}

	today := utils.DateOnly(time.Now())

	for _, v := range vehicles {
		record := []string{
			strconv.FormatInt(v.ID, 10),
			v.Type, v.Name, v.Brand, v.Model, v.Color, v.Number, v.Status,
			"", "", "", "", "", "", "", "", "", "", "", "", "",
		}

		seller, sErr := s.vehicleRepo.GetSeller(ctx, v.ID)
		if sErr == nil && seller != nil {
			record[8] = seller.SellerName
			record[9] = seller.SellerPhone
			record[10] = strconv.FormatInt(seller.BuyValue, 10)
			record[11] = seller.BuyDate
		}

		buyer, bErr := s.buyerRepo.GetByVehicleID(ctx, v.ID)
		if bErr == nil && buyer != nil {
			record[12] = buyer.Name
			record[13] = buyer.Phone
			record[14] = utils.FormatISODate(buyer.SaleDate)
			record[15] = strconv.FormatInt(buyer.SaleValue, 10)
			record[16] = strconv.FormatInt(buyer.FinanceAmount, 10)
			record[17] = strconv.FormatInt(buyer.InstallmentAmount, 10)
			record[18] = strconv.Itoa(buyer.TenureMonths)

			installments, iErr := s.installmentRepo.GetByBuyerID(ctx, buyer.ID)
			if iErr == nil {
				paid, overdue := 0, 0
				for _, inst := range installments {
					if inst.Paid {
						paid++
					} else if inst.DueDate.Before(today) {
						overdue++
					}
				}
				record[19] = strconv.Itoa(paid)
				record[20] = strconv.Itoa(overdue)
			}
		}

		if err = w.Write(record); err != nil {
			return err
		}
	}
	return nil
}
